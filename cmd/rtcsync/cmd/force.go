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
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// minForceEpoch is 2023-01-01; anything older is a fat-fingered epoch
const minForceEpoch = 1672527600

// flag
var forceEpochFlag int64

func init() {
	RootCmd.AddCommand(forceCmd)
	forceCmd.Flags().Int64VarP(&forceEpochFlag, "epoch", "e", 0, "epoch to force into the RTC")
	if err := forceCmd.MarkFlagRequired("epoch"); err != nil {
		log.Fatal(err)
	}
}

var forceCmd = &cobra.Command{
	Use:   "force",
	Short: "Force the RTC to a given epoch time",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		if forceEpochFlag < minForceEpoch {
			log.Fatalf("Epoch %d is too low", forceEpochFlag)
		}
		dev := openRTC()
		log.Debugf("Setting RTC time to %s", time.Unix(forceEpochFlag, 0).UTC())
		if err := dev.Write(uint32(forceEpochFlag)); err != nil {
			log.Fatalf("Writing RTC via %s: %v", dev.Path(), err)
		}
	},
}
