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
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(printCmd)
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the RTC time",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		dev := openRTC()
		epoch, err := dev.Read()
		if err != nil {
			log.Fatalf("Read RTC failed: %v", err)
		}
		if epoch == 0 {
			log.Fatal("Read RTC failed, time is 0")
		}
		fmt.Printf("RTC clock: %s\n", time.Unix(int64(epoch), 0).UTC())
	},
}
