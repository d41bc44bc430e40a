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

package drift

import (
	"fmt"
	"os"
)

// DefaultFile is where the daemon persists its estimate between runs
const DefaultFile = "/etc/rtcsync.drift"

// Estimate is the persisted drift state: when it was computed and the
// drift rate in seconds per second at that point
type Estimate struct {
	LastSync int64
	Rate     float64
}

// Valid reports whether the estimate carries usable information.
// A zero timestamp or zero rate means no projection can be made.
func (e Estimate) Valid() bool {
	return e.LastSync != 0 && e.Rate != 0
}

// Project returns the expected drift in seconds accumulated between
// LastSync and the given RTC time
func (e Estimate) Project(rtcTime int64) int64 {
	return int64(float64(rtcTime-e.LastSync) * e.Rate)
}

// Save overwrites the drift file with "<epoch>:<rate>"
func Save(path string, e Estimate) error {
	data := fmt.Sprintf("%d:%f", e.LastSync, e.Rate)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the drift file. A missing or malformed file is
// an error; callers treat it as "no correction available".
func Load(path string) (Estimate, error) {
	e := Estimate{}
	data, err := os.ReadFile(path)
	if err != nil {
		return e, fmt.Errorf("reading %s: %w", path, err)
	}
	if _, err := fmt.Sscanf(string(data), "%d:%f", &e.LastSync, &e.Rate); err != nil {
		return Estimate{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return e, nil
}
