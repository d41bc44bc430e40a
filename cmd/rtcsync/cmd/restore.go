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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/facebook/rtcsync/daemon"
	"github.com/facebook/rtcsync/drift"
)

func init() {
	RootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the system time from the RTC",
	Long:  "Restore the system time from the RTC, without drift projection. The daemon's cold sync is the drift-compensated variant.",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		s := daemon.NewSynchronizer(openRTC(), drift.DefaultFile, nil)
		s.Sync(true)
	},
}
