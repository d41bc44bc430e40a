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
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/facebook/rtcsync/drift"
	"github.com/facebook/rtcsync/rtc"
	"github.com/facebook/rtcsync/sysclock"
)

// Deadband is the largest RTC/system discrepancy we leave uncorrected,
// to avoid needless clock perturbation
const Deadband = 30 * time.Second

// Synchronizer reconciles the RTC and the system clock. Failures on the
// synchronization path are logged and never surfaced to the caller; the
// next cycle corrects what this one could not.
type Synchronizer struct {
	Device    rtc.Device
	DriftFile string

	stats StatsServer

	// clock primitives, injectable for tests
	now  func() time.Time
	slew func(time.Duration) error
	set  func(time.Time) error
}

// NewSynchronizer returns a Synchronizer backed by the real system clock
func NewSynchronizer(dev rtc.Device, driftFile string, stats StatsServer) *Synchronizer {
	if stats == nil {
		stats = NewStats()
	}
	return &Synchronizer{
		Device:    dev,
		DriftFile: driftFile,
		stats:     stats,
		now:       time.Now,
		slew:      sysclock.Slew,
		set:       sysclock.Set,
	}
}

// Sync pulls the RTC time into the system clock. Unless interactive
// (the one-shot restore command), a persisted drift estimate is used to
// compensate for drift accumulated while the box was powered off.
func (s *Synchronizer) Sync(interactive bool) {
	rtcEpoch, err := s.Device.Read()
	if err != nil {
		log.Errorf("Reading RTC from %s: %v", s.Device.Path(), err)
	}
	if rtcEpoch == 0 {
		log.Error("Sync failed, RTC time is 0")
		s.stats.UpdateCounterBy("sync_failed", 1)
		return
	}
	rtcTime := int64(rtcEpoch)

	if !interactive {
		e, err := drift.Load(s.DriftFile)
		if err != nil {
			log.Warningf("No drift correction available: %v", err)
		} else if e.Valid() {
			driftSeconds := e.Project(rtcTime)
			log.Debugf("RTC drift rate:%f lastsave:%d offline seconds:%d drift seconds:%d",
				e.Rate, e.LastSync, rtcTime-e.LastSync, driftSeconds)
			rtcTime += driftSeconds
			s.stats.SetCounter("drift_projection_sec", driftSeconds)
		}
	}

	delta := rtcTime - s.now().Unix()
	if abs(delta) <= int64(Deadband.Seconds()) {
		log.Debugf("RTC and system clock differ by %ds, within deadband", delta)
		s.stats.UpdateCounterBy("sync_ok", 1)
		return
	}

	err = s.slew(time.Duration(delta) * time.Second)
	switch {
	case err == nil:
		log.Infof("Slewing system time by %d seconds", delta)
		s.stats.UpdateCounterBy("slew", 1)
		s.stats.UpdateCounterBy("sync_ok", 1)
	case errors.Is(err, unix.EINVAL):
		// delta too large for incremental slewing, fall back to a hard set
		if err := s.set(time.Unix(rtcTime, 0)); err != nil {
			log.Errorf("Stepping system time to %d failed: %v", rtcTime, err)
			s.stats.UpdateCounterBy("sync_failed", 1)
			return
		}
		log.Infof("Stepping system time by %d seconds", delta)
		s.stats.UpdateCounterBy("step", 1)
		s.stats.UpdateCounterBy("sync_ok", 1)
	default:
		log.Errorf("Slewing system time by %d seconds failed: %v", delta, err)
		s.stats.UpdateCounterBy("sync_failed", 1)
	}
}

// UpdateRTC writes the current system time into the hardware clock.
// When history is non-nil the discrepancy against the old RTC value is
// recorded as a drift sample first. Returns the written epoch and the
// recorded sample, 0 if none. Best-effort: all failures are logged,
// never returned.
func (s *Synchronizer) UpdateRTC(history *drift.History) (uint32, int) {
	epoch := uint32(s.now().Unix())
	sample := 0

	if history != nil {
		old, err := s.Device.Read()
		if err != nil {
			log.Errorf("Reading RTC from %s: %v", s.Device.Path(), err)
			s.stats.UpdateCounterBy("rtc_read_error", 1)
		} else if old != 0 {
			sample = int(int64(old) - int64(epoch))
			if sample != 0 {
				history.Record(sample)
				s.stats.UpdateCounterBy("drift_sample", 1)
				log.Debugf("RTC drift sample:%d data:%v", sample, history.Samples())
			}
		}
	}

	log.Debugf("Setting RTC time to %s", time.Unix(int64(epoch), 0).UTC())
	if err := s.Device.Write(epoch); err != nil {
		log.Errorf("Writing RTC via %s: %v", s.Device.Path(), err)
		s.stats.UpdateCounterBy("rtc_write_error", 1)
	}
	return epoch, sample
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
