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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/rtcsync/rtc"
)

// Version is the rtcsync version, settable at build time
var Version = "2.0.0"

// RootCmd is a main entry point. It's exported so rtcsync could be easily extended without touching core functionality.
var RootCmd = &cobra.Command{
	Use:     "rtcsync",
	Short:   "keep the set-top-box front processor RTC and the system clock in sync",
	Version: Version,
}

// flags
var rootVerboseFlag bool
var rootSysfsFlag string
var rootDeviceFlag string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().StringVar(&rootSysfsFlag, "rtc", rtc.DefaultSysfsPath, "RTC text pseudo-file")
	RootCmd.PersistentFlags().StringVar(&rootDeviceFlag, "device", rtc.DefaultDevicePath, "front processor device node fallback")
}

// ConfigureVerbosity configures log verbosity based on parsed flags. Needs to be called by any subcommand.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// openRTC probes the configured RTC interfaces
func openRTC() rtc.Device {
	dev, err := rtc.Open(rootSysfsFlag, rootDeviceFlag)
	if err != nil {
		log.Fatal(err)
	}
	return dev
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
