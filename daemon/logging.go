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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// LogSample is one RTC write cycle worth of measurements
type LogSample struct {
	Timestamp    time.Time
	WrittenEpoch uint32
	DriftSec     int
	RateEstimate float64
}

var header = []string{
	"timestamp",
	"written_epoch",
	"drift_sec",
	"rate_estimate",
}

// CSVRecords returns all data from this sample as CSV. Must be synced with `header` variable.
func (s *LogSample) CSVRecords() []string {
	return []string{
		s.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatUint(uint64(s.WrittenEpoch), 10),
		strconv.Itoa(s.DriftSec),
		strconv.FormatFloat(s.RateEstimate, 'f', -1, 64),
	}
}

// Logger is something that can store LogSample somewhere
type Logger interface {
	Log(*LogSample) error
}

// CSVLogger logs Sample as CSV into given writer
type CSVLogger struct {
	csvwriter     *csv.Writer
	printedHeader bool
}

// NewCSVLogger returns new CSVLogger
func NewCSVLogger(w io.Writer) *CSVLogger {
	return &CSVLogger{
		csvwriter: csv.NewWriter(w),
	}
}

// Log implements Logger interface
func (l *CSVLogger) Log(s *LogSample) error {
	if !l.printedHeader {
		if err := l.csvwriter.Write(header); err != nil {
			return err
		}
		l.printedHeader = true
	}
	if err := l.csvwriter.Write(s.CSVRecords()); err != nil {
		return err
	}
	l.csvwriter.Flush()
	return nil
}

// DummyLogger writes one line per sample to given writer
type DummyLogger struct {
	w io.Writer
}

// NewDummyLogger returns new DummyLogger
func NewDummyLogger(w io.Writer) *DummyLogger {
	return &DummyLogger{w: w}
}

// Log implements Logger interface
func (l *DummyLogger) Log(s *LogSample) error {
	_, err := fmt.Fprintf(l.w, "epoch=%d drift=%ds rate=%f\n", s.WrittenEpoch, s.DriftSec, s.RateEstimate)
	return err
}
