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
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-ini/ini"
	"golang.org/x/sys/unix"
	yaml "gopkg.in/yaml.v2"

	"github.com/facebook/rtcsync/drift"
	"github.com/facebook/rtcsync/rtc"
)

// DefaultInterval is how often we write system time back into the RTC
const DefaultInterval = 1800 * time.Second

// DefaultPidFile is the well-known pid file location
const DefaultPidFile = "/var/run/rtcsync.pid"

// dcMux guards swaps of DynamicConfig on reload
var dcMux = sync.Mutex{}

// StaticConfig is a set of options which require a daemon restart
type StaticConfig struct {
	SysfsPath      string // text pseudo-file exposing the RTC epoch
	DevicePath     string // front processor device node fallback
	DriftFile      string // where the drift estimate is persisted
	PidFile        string
	ConfigFile     string // runtime key=value config, reloaded on SIGHUP
	LogFile        string
	MonitoringPort int
}

// DynamicConfig is a set of options which can be reloaded at runtime
type DynamicConfig struct {
	// Interval between RTC write cycles; also the normalization divisor
	// for the drift rate
	Interval time.Duration
	// Verbose enables debug logging
	Verbose bool
}

// Config is the daemon config structure
type Config struct {
	StaticConfig
	DynamicConfig
}

// DefaultConfig returns a Config with the fixed well-known paths filled in
func DefaultConfig() *Config {
	return &Config{
		StaticConfig: StaticConfig{
			SysfsPath:  rtc.DefaultSysfsPath,
			DevicePath: rtc.DefaultDevicePath,
			DriftFile:  drift.DefaultFile,
			PidFile:    DefaultPidFile,
		},
		DynamicConfig: DynamicConfig{
			Interval: DefaultInterval,
		},
	}
}

// Validate makes sure the config is usable
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("bad config: interval must be positive, got %v", c.Interval)
	}
	if c.SysfsPath == "" && c.DevicePath == "" {
		return fmt.Errorf("bad config: no RTC interface configured")
	}
	return nil
}

// ReadConfig reads static config and unmarshals it from yaml over the defaults
func ReadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &c.StaticConfig); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadDynamicConfig parses the runtime config file. The format is
// line-oriented key=value with '#' comments; only 'timeout' (seconds)
// and 'verbose' are recognized, anything else is ignored.
func ReadDynamicConfig(path string) (*DynamicConfig, error) {
	f, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, path)
	if err != nil {
		return nil, err
	}
	dc := &DynamicConfig{Interval: DefaultInterval}
	section := f.Section("")
	if k, err := section.GetKey("timeout"); err == nil {
		v, err := k.Int()
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		dc.Interval = time.Duration(v) * time.Second
	}
	if k, err := section.GetKey("verbose"); err == nil {
		v, err := k.Int()
		if err != nil {
			return nil, fmt.Errorf("parsing verbose: %w", err)
		}
		dc.Verbose = v != 0
	}
	if dc.Interval <= 0 {
		return nil, fmt.Errorf("bad dynamic config: timeout must be positive")
	}
	return dc, nil
}

// SetDynamicConfig atomically replaces the reloadable part of the config
func (c *Config) SetDynamicConfig(dc *DynamicConfig) {
	dcMux.Lock()
	c.DynamicConfig = *dc
	dcMux.Unlock()
}

// CurrentInterval returns the loop interval, re-evaluated under the
// reload mutex so a SIGHUP takes effect on the next iteration
func (c *Config) CurrentInterval() time.Duration {
	dcMux.Lock()
	defer dcMux.Unlock()
	return c.Interval
}

// CurrentVerbose returns the verbose flag under the reload mutex
func (c *Config) CurrentVerbose() bool {
	dcMux.Lock()
	defer dcMux.Unlock()
	return c.Verbose
}

// PidLock is an exclusively locked pid file. It excludes a second daemon
// instance from starting; there is no intra-process contention on it.
type PidLock struct {
	f    *os.File
	path string
}

// CreatePidFile creates the pid file, takes an exclusive advisory lock
// on it and records our pid. Failure here is fatal to the caller.
func CreatePidFile(path string) (*PidLock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0640)
	if err != nil {
		return nil, fmt.Errorf("opening pid file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking pid file %s: %w", path, err)
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := fmt.Fprintf(f, "%d\n", unix.Getpid()); err != nil {
		f.Close()
		return nil, err
	}
	return &PidLock{f: f, path: path}, nil
}

// Release unlocks, closes and deletes the pid file
func (l *PidLock) Release() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		return err
	}
	if err := l.f.Close(); err != nil {
		return err
	}
	return os.Remove(l.path)
}

// ReadPidFile reads a pid file from a path location and returns a pid
func ReadPidFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}
