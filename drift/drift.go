/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package drift models the error rate of the front processor RTC.

Every RTC write cycle yields one sample: the difference in seconds between
what the RTC said and what we were about to write. The last few samples are
kept in a small ring; a robust central estimate over the ring, normalized to
drift per second, is persisted at shutdown and used after the next start to
project how far the RTC has wandered while the box was powered off.
*/
package drift

import (
	"sort"
	"sync"
)

// Slots is the fixed capacity of the sample ring
const Slots = 10

// Sentinel marks a slot that has not been written since the last reset,
// so an unpopulated ring does not read as "no drift at all"
const Sentinel = -1

// History is a fixed ring of the most recent non-zero drift samples,
// guarded by mutex
type History struct {
	mu       sync.Mutex
	samples  [Slots]int
	cursor   int
	recorded int
}

// NewHistory returns a History with all slots set to the sentinel
func NewHistory() *History {
	h := &History{}
	h.Reset()
	return h
}

// Reset restores all slots to the sentinel and rewinds the cursor
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.samples {
		h.samples[i] = Sentinel
	}
	h.cursor = 0
	h.recorded = 0
}

// Record inserts a sample at the cursor and advances it circularly.
// A zero sample carries no information and is dropped.
func (h *History) Record(sample int) {
	if sample == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples[h.cursor] = sample
	h.cursor = (h.cursor + 1) % Slots
	if h.recorded < Slots {
		h.recorded++
	}
}

// Full reports whether every slot has been overwritten with a real
// sample since the last reset
func (h *History) Full() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recorded >= Slots
}

// Samples returns a copy of the ring contents in slot order
func (h *History) Samples() [Slots]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.samples
}

// Rate returns the median of the ring (average of the two central values
// of the sorted samples) divided by delay, i.e. seconds of drift per
// second of wall time. Sentinel slots participate in the sort; callers
// should check Full before trusting the result.
func (h *History) Rate(delay int) float64 {
	h.mu.Lock()
	sorted := make([]int, Slots)
	copy(sorted, h.samples[:])
	h.mu.Unlock()
	sort.Ints(sorted)
	median := float64(sorted[Slots/2-1]+sorted[Slots/2]) / 2.0
	return median / float64(delay)
}
