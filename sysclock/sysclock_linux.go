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

package sysclock

import (
	"time"

	"golang.org/x/sys/unix"
)

// Slew asks the kernel to gradually adjust the system clock by delta,
// via the adjtime(3) emulation of adjtimex. The kernel rejects deltas
// outside its slewing range with EINVAL; callers are expected to branch
// on that and step the clock instead.
func Slew(delta time.Duration) error {
	tx := &unix.Timex{
		Modes: unix.ADJ_OFFSET_SINGLESHOT,
	}
	setOffset(tx, delta.Microseconds())
	_, err := unix.Adjtimex(tx)
	return err
}

// Set steps the system clock to the given time
func Set(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	return unix.Settimeofday(&tv)
}
