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
Package rtc talks to the set-top-box front processor RTC.

Two interfaces exist for it, depending on the platform: a text pseudo-file
exposing the epoch as a decimal string, and an older character device driven
by ioctl. The text interface is preferred; both are probed once at startup
and the winner is used for the life of the process.
*/
package rtc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default locations of the two front processor RTC interfaces
const (
	DefaultSysfsPath  = "/proc/stb/fp/rtc"
	DefaultDevicePath = "/dev/dbox/fp0"
)

// Device is a handle to the hardware clock. An epoch of 0 means
// "no valid reading" and is never a legitimate RTC value.
type Device interface {
	// Read returns the RTC epoch in seconds
	Read() (uint32, error)
	// Write sets the RTC to the given epoch
	Write(epoch uint32) error
	// Path returns the underlying interface path, for logging
	Path() string
}

// SysfsDevice reads and writes the RTC through the text pseudo-file
type SysfsDevice struct {
	path string
}

// NewSysfsDevice returns a SysfsDevice using the given pseudo-file
func NewSysfsDevice(path string) *SysfsDevice {
	return &SysfsDevice{path: path}
}

// Read parses the decimal epoch string from the pseudo-file
func (d *SysfsDevice) Read() (uint32, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", d.path, err)
	}
	epoch, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", d.path, err)
	}
	return uint32(epoch), nil
}

// Write prints the epoch as a decimal string into the pseudo-file
func (d *SysfsDevice) Write(epoch uint32) error {
	if err := os.WriteFile(d.path, []byte(strconv.FormatUint(uint64(epoch), 10)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	return nil
}

// Path returns the pseudo-file path
func (d *SysfsDevice) Path() string {
	return d.path
}

// Open probes the two RTC interfaces in preference order and returns
// a Device for the first one that is usable. The choice is made once;
// callers are expected to keep the Device for the life of the process.
func Open(sysfsPath, devicePath string) (Device, error) {
	if _, err := os.Stat(sysfsPath); err == nil {
		return NewSysfsDevice(sysfsPath), nil
	}
	if _, err := os.Stat(devicePath); err == nil {
		return NewIoctlDevice(devicePath), nil
	}
	return nil, fmt.Errorf("no RTC interface found: tried %s and %s", sysfsPath, devicePath)
}
