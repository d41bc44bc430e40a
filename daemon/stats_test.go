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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsCounters(t *testing.T) {
	s := NewStats()
	s.SetCounter("slew", 5)
	s.UpdateCounterBy("slew", 2)
	s.UpdateCounterBy("step", 1)

	counters := s.Get()
	require.Equal(t, int64(7), counters["slew"])
	require.Equal(t, int64(1), counters["step"])

	s.Reset()
	counters = s.Get()
	require.Equal(t, int64(0), counters["slew"])
	require.Equal(t, int64(0), counters["step"])
}
