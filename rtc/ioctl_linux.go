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

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Front processor ioctl requests, from the dbox fp driver.
// Plain numbers, not _IO encoded.
const (
	fpIoctlSetRTC = 0x101
	fpIoctlGetRTC = 0x102
)

// IoctlDevice reads and writes the RTC through the front processor
// character device. The fp driver ABI is 32-bit, so the epoch crosses
// the ioctl boundary as a uint32.
type IoctlDevice struct {
	path string
}

// NewIoctlDevice returns an IoctlDevice using the given device node
func NewIoctlDevice(path string) *IoctlDevice {
	return &IoctlDevice{path: path}
}

func (d *IoctlDevice) ioctl(req uint, epoch *uint32) error {
	f, err := os.OpenFile(d.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", d.path, err)
	}
	defer f.Close()
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL, f.Fd(),
		uintptr(req),
		uintptr(unsafe.Pointer(epoch)),
	)
	if errno != 0 {
		return fmt.Errorf("ioctl 0x%x on %s: %w", req, d.path, errno)
	}
	return nil
}

// Read issues the get request into a caller buffer
func (d *IoctlDevice) Read() (uint32, error) {
	var epoch uint32
	if err := d.ioctl(fpIoctlGetRTC, &epoch); err != nil {
		return 0, err
	}
	return epoch, nil
}

// Write issues the set request with the given epoch
func (d *IoctlDevice) Write(epoch uint32) error {
	return d.ioctl(fpIoctlSetRTC, &epoch)
}

// Path returns the device node path
func (d *IoctlDevice) Path() string {
	return d.path
}
