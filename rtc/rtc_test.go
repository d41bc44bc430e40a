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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSysfsDeviceRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc")
	require.NoError(t, os.WriteFile(path, []byte("1700000000\n"), 0644))

	d := NewSysfsDevice(path)
	epoch, err := d.Read()
	require.NoError(t, err)
	require.Equal(t, uint32(1700000000), epoch)
}

func TestSysfsDeviceReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc")
	require.NoError(t, os.WriteFile(path, []byte("rubbish"), 0644))

	d := NewSysfsDevice(path)
	epoch, err := d.Read()
	require.Error(t, err)
	require.Equal(t, uint32(0), epoch)
}

func TestSysfsDeviceReadMissing(t *testing.T) {
	d := NewSysfsDevice(filepath.Join(t.TempDir(), "nonexistent"))
	epoch, err := d.Read()
	require.Error(t, err)
	require.Equal(t, uint32(0), epoch)
}

func TestSysfsDeviceWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc")
	d := NewSysfsDevice(path)
	require.NoError(t, d.Write(1700000042))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1700000042", string(data))
}

func TestSysfsDeviceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc")
	d := NewSysfsDevice(path)
	require.NoError(t, d.Write(1672527600))

	epoch, err := d.Read()
	require.NoError(t, err)
	require.Equal(t, uint32(1672527600), epoch)
}

func TestOpenPrefersSysfs(t *testing.T) {
	dir := t.TempDir()
	sysfs := filepath.Join(dir, "rtc")
	devNode := filepath.Join(dir, "fp0")
	require.NoError(t, os.WriteFile(sysfs, []byte("0"), 0644))
	require.NoError(t, os.WriteFile(devNode, []byte{}, 0644))

	d, err := Open(sysfs, devNode)
	require.NoError(t, err)
	require.IsType(t, &SysfsDevice{}, d)
	require.Equal(t, sysfs, d.Path())
}

func TestOpenFallsBackToIoctl(t *testing.T) {
	dir := t.TempDir()
	devNode := filepath.Join(dir, "fp0")
	require.NoError(t, os.WriteFile(devNode, []byte{}, 0644))

	d, err := Open(filepath.Join(dir, "nonexistent"), devNode)
	require.NoError(t, err)
	require.IsType(t, &IoctlDevice{}, d)
	require.Equal(t, devNode, d.Path())
}

func TestOpenNoInterface(t *testing.T) {
	dir := t.TempDir()
	d, err := Open(filepath.Join(dir, "a"), filepath.Join(dir, "b"))
	require.Error(t, err)
	require.Nil(t, d)
}
