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

package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestReadDynamicConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.conf")
	content := `# rtcsync runtime config
verbose=1
timeout=600
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	dc, err := ReadDynamicConfig(path)
	require.NoError(t, err)
	require.Equal(t, 600*time.Second, dc.Interval)
	require.True(t, dc.Verbose)
}

func TestReadDynamicConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.conf")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0644))

	dc, err := ReadDynamicConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultInterval, dc.Interval)
	require.False(t, dc.Verbose)
}

func TestReadDynamicConfigIgnoresUnknownContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.conf")
	content := `# comment
some garbage line
otherkey=42
timeout=900
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	dc, err := ReadDynamicConfig(path)
	require.NoError(t, err)
	require.Equal(t, 900*time.Second, dc.Interval)
	require.False(t, dc.Verbose)
}

func TestReadDynamicConfigMissing(t *testing.T) {
	_, err := ReadDynamicConfig(filepath.Join(t.TempDir(), "nonexistent"))
	require.Error(t, err)
}

func TestReadDynamicConfigBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.conf")
	require.NoError(t, os.WriteFile(path, []byte("timeout=abc\n"), 0644))

	_, err := ReadDynamicConfig(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("timeout=-5\n"), 0644))
	_, err = ReadDynamicConfig(path)
	require.Error(t, err)
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.yaml")
	content := `sysfspath: /tmp/rtc
devicepath: /tmp/fp0
driftfile: /tmp/rtcsync.drift
monitoringport: 21040
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/rtc", c.SysfsPath)
	require.Equal(t, "/tmp/fp0", c.DevicePath)
	require.Equal(t, "/tmp/rtcsync.drift", c.DriftFile)
	require.Equal(t, 21040, c.MonitoringPort)
	// unset fields keep defaults
	require.Equal(t, DefaultPidFile, c.PidFile)
	require.Equal(t, DefaultInterval, c.Interval)
}

func TestValidate(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	c.Interval = 0
	require.Error(t, c.Validate())

	c = DefaultConfig()
	c.SysfsPath = ""
	c.DevicePath = ""
	require.Error(t, c.Validate())
}

func TestSetDynamicConfig(t *testing.T) {
	c := DefaultConfig()
	c.SetDynamicConfig(&DynamicConfig{Interval: 60 * time.Second, Verbose: true})
	require.Equal(t, 60*time.Second, c.CurrentInterval())
	require.True(t, c.CurrentVerbose())
}

func TestPidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.pid")

	l, err := CreatePidFile(path)
	require.NoError(t, err)
	require.FileExists(t, path)

	pid, err := ReadPidFile(path)
	require.NoError(t, err)
	require.Equal(t, unix.Getpid(), pid)

	require.NoError(t, l.Release())
	require.NoFileExists(t, path)
}

func TestPidFileExcludesSecondInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.pid")

	l, err := CreatePidFile(path)
	require.NoError(t, err)
	defer l.Release()

	_, err = CreatePidFile(path)
	require.Error(t, err)
}

func TestReadPidFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtcsync.pid")
	require.NoError(t, os.WriteFile(path, []byte("rubbish"), 0644))

	pid, err := ReadPidFile(path)
	require.Error(t, err)
	require.Equal(t, 0, pid)
}
