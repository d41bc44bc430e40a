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
Package daemon keeps the set-top-box front processor RTC and the system
clock in agreement.

On startup the system clock is pulled from the RTC once ("cold sync"),
corrected by the drift estimate persisted during the previous run. After
that the loop runs the other way: the system time is written back into
the RTC every interval, and each write cycle yields one drift sample.
At shutdown the median drift rate is persisted for the next cold sync.
*/
package daemon

import (
	"context"
	"os"
	"os/signal"
	"time"

	sd "github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/facebook/rtcsync/drift"
	"github.com/facebook/rtcsync/rtc"
)

// Daemon drives the periodic resync loop
type Daemon struct {
	cfg     *Config
	stats   StatsServer
	l       Logger
	history *drift.History
	sync    *Synchronizer
	pid     *PidLock
}

// New creates a new rtcsync daemon. The RTC interface is probed once
// here; not finding one is fatal.
func New(cfg *Config, stats StatsServer, l Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dev, err := rtc.Open(cfg.SysfsPath, cfg.DevicePath)
	if err != nil {
		return nil, err
	}
	log.Infof("Using RTC interface %s", dev.Path())

	d := &Daemon{
		cfg:     cfg,
		stats:   stats,
		l:       l,
		history: drift.NewHistory(),
		sync:    NewSynchronizer(dev, cfg.DriftFile, stats),
	}
	for _, c := range []string{
		"sync_ok",
		"sync_failed",
		"slew",
		"step",
		"drift_sample",
		"drift_projection_sec",
		"rtc_read_error",
		"rtc_write_error",
		"config_reload",
	} {
		stats.SetCounter(c, 0)
	}
	return d, nil
}

func applyVerbosity(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// handleSighup re-reads the runtime config file in place. The loop
// re-evaluates the interval each iteration, so the new value takes
// effect on the next pass without resetting drift history.
func (d *Daemon) handleSighup() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, unix.SIGHUP)
	for range sigchan {
		log.Info("SIGHUP received, reloading config")
		if d.cfg.ConfigFile == "" {
			log.Warning("No config file configured, nothing to reload")
			continue
		}
		dc, err := ReadDynamicConfig(d.cfg.ConfigFile)
		if err != nil {
			log.Errorf("Failed to reload config: %v. Moving on", err)
			continue
		}
		d.cfg.SetDynamicConfig(dc)
		applyVerbosity(dc.Verbose)
		d.stats.UpdateCounterBy("config_reload", 1)
		log.Infof("Reloaded configuration file %s", d.cfg.ConfigFile)
	}
}

// handleSigchld is purely informational
func (d *Daemon) handleSigchld() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, unix.SIGCHLD)
	for range sigchan {
		log.Debug("Received SIGCHLD signal")
	}
}

// Run the daemon until SIGTERM/SIGINT or context cancellation
func (d *Daemon) Run(ctx context.Context) error {
	if d.cfg.PidFile != "" {
		pid, err := CreatePidFile(d.cfg.PidFile)
		if err != nil {
			return err
		}
		d.pid = pid
	}

	if d.cfg.ConfigFile != "" {
		dc, err := ReadDynamicConfig(d.cfg.ConfigFile)
		if err != nil {
			log.Errorf("Can not read config file %s: %v", d.cfg.ConfigFile, err)
		} else {
			d.cfg.SetDynamicConfig(dc)
			log.Infof("Configuration read from file %s", d.cfg.ConfigFile)
		}
	}
	applyVerbosity(d.cfg.CurrentVerbose())

	sigstop := make(chan os.Signal, 1)
	signal.Notify(sigstop, unix.SIGTERM, unix.SIGINT)
	go d.handleSighup()
	go d.handleSigchld()

	d.history.Reset()
	log.Info("Performing cold sync from RTC")
	d.sync.Sync(false)

	if _, err := sd.SdNotify(false, sd.SdNotifyReady); err != nil {
		log.Debugf("sd_notify: %v", err)
	}

	log.Infof("Starting sync loop, interval %v", d.cfg.CurrentInterval())
	for {
		epoch, sample := d.sync.UpdateRTC(d.history)
		delay := d.cfg.CurrentInterval()
		s := &LogSample{
			Timestamp:    d.sync.now(),
			WrittenEpoch: epoch,
			DriftSec:     sample,
			RateEstimate: d.history.Rate(int(delay.Seconds())),
		}
		if err := d.l.Log(s); err != nil {
			log.Errorf("Failed to log sample: %v", err)
		}

		select {
		case sig := <-sigstop:
			log.Infof("Received %s, shutting down", sig)
			return d.shutdown()
		case <-ctx.Done():
			return d.shutdown()
		case <-time.After(delay):
		}
	}
}

// shutdown releases the pid file and persists the drift estimate.
// All file I/O happens here on the main goroutine, not in a signal
// handler; the signal only makes the loop fall through to this point.
func (d *Daemon) shutdown() error {
	if _, err := sd.SdNotify(false, sd.SdNotifyStopping); err != nil {
		log.Debugf("sd_notify: %v", err)
	}
	if d.pid != nil {
		if err := d.pid.Release(); err != nil {
			log.Errorf("Removing pid file: %v", err)
		}
	}
	d.persistDrift()
	return nil
}

func (d *Daemon) persistDrift() {
	if !d.history.Full() {
		log.Warning("Drift history is not fully populated, estimate still includes startup sentinels")
	}
	e := drift.Estimate{
		LastSync: d.sync.now().Unix(),
		Rate:     d.history.Rate(int(d.cfg.CurrentInterval().Seconds())),
	}
	log.Infof("Writing drift %d:%f", e.LastSync, e.Rate)
	if err := drift.Save(d.cfg.DriftFile, e); err != nil {
		log.Errorf("Persisting drift estimate: %v", err)
	}
}
