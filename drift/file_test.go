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

package drift

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drift")
	want := Estimate{LastSync: 1700000000, Rate: 0.002778}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want.LastSync, got.LastSync)
	require.InDelta(t, want.Rate, got.Rate, 1e-6)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drift")
	require.NoError(t, Save(path, Estimate{LastSync: 1, Rate: 1}))
	require.NoError(t, Save(path, Estimate{LastSync: 1700000000, Rate: 0.01}))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), got.LastSync)
	require.InDelta(t, 0.01, got.Rate, 1e-6)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent"))
	require.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drift")
	require.NoError(t, os.WriteFile(path, []byte("rubbish"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestProject(t *testing.T) {
	e := Estimate{LastSync: 1700000000, Rate: 0.01}
	// 3600s offline at 0.01s/s is 36s of accumulated drift
	require.Equal(t, int64(36), e.Project(1700003600))
}

func TestProjectNegativeRate(t *testing.T) {
	e := Estimate{LastSync: 1700000000, Rate: -0.01}
	require.Equal(t, int64(-36), e.Project(1700003600))
}

func TestValid(t *testing.T) {
	require.False(t, Estimate{}.Valid())
	require.False(t, Estimate{LastSync: 1700000000}.Valid())
	require.False(t, Estimate{Rate: 0.01}.Valid())
	require.True(t, Estimate{LastSync: 1700000000, Rate: 0.01}.Valid())
}
