//go:build !linux

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

package rtc

import "fmt"

// IoctlDevice is only functional on linux
type IoctlDevice struct {
	path string
}

// NewIoctlDevice returns an IoctlDevice using the given device node
func NewIoctlDevice(path string) *IoctlDevice {
	return &IoctlDevice{path: path}
}

// Read is not supported on this platform
func (d *IoctlDevice) Read() (uint32, error) {
	return 0, fmt.Errorf("ioctl RTC access is not supported on this platform")
}

// Write is not supported on this platform
func (d *IoctlDevice) Write(_ uint32) error {
	return fmt.Errorf("ioctl RTC access is not supported on this platform")
}

// Path returns the device node path
func (d *IoctlDevice) Path() string {
	return d.path
}
