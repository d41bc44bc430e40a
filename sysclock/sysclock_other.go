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

package sysclock

import (
	"errors"
	"time"
)

// ErrUnsupported is returned on platforms without clock adjustment support
var ErrUnsupported = errors.New("system clock adjustment is not supported on this platform")

// Slew is not supported on this platform
func Slew(_ time.Duration) error {
	return ErrUnsupported
}

// Set is not supported on this platform
func Set(_ time.Time) error {
	return ErrUnsupported
}
