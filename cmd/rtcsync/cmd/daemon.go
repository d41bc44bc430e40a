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
	"context"
	"log/syslog"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/spf13/cobra"

	"github.com/facebook/rtcsync/daemon"
)

// flags
var (
	daemonCfg         = daemon.DefaultConfig()
	daemonCfgPathFlag string
	daemonTimeoutFlag int
	daemonCSVLogFlag  bool
	daemonNoSyslog    bool
)

func init() {
	RootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonCfgPathFlag, "cfg", "", "path to static yaml config, flag values are ignored when set")
	daemonCmd.Flags().IntVarP(&daemonTimeoutFlag, "timeout", "t", int(daemon.DefaultInterval.Seconds()), "loop timeout in seconds")
	daemonCmd.Flags().StringVarP(&daemonCfg.ConfigFile, "config", "c", "", "runtime key=value config, reloaded on SIGHUP")
	daemonCmd.Flags().StringVarP(&daemonCfg.LogFile, "logfile", "l", "", "write logs to the file")
	daemonCmd.Flags().StringVar(&daemonCfg.PidFile, "pidfile", daemonCfg.PidFile, "pid file location")
	daemonCmd.Flags().StringVar(&daemonCfg.DriftFile, "driftfile", daemonCfg.DriftFile, "persisted drift estimate location")
	daemonCmd.Flags().IntVar(&daemonCfg.MonitoringPort, "monitoringport", 0, "port to run monitoring server on, 0 means disabled")
	daemonCmd.Flags().BoolVar(&daemonCSVLogFlag, "csvlog", false, "log all sync samples as CSV")
	daemonCmd.Flags().BoolVar(&daemonNoSyslog, "nosyslog", false, "do not mirror logs to syslog")
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the periodic RTC sync loop as a service",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		cfg := daemonCfg
		cfg.SysfsPath = rootSysfsFlag
		cfg.DevicePath = rootDeviceFlag
		cfg.Interval = time.Duration(daemonTimeoutFlag) * time.Second
		cfg.Verbose = rootVerboseFlag
		if daemonCfgPathFlag != "" {
			log.Warningf("Using config from %s, flag values are ignored", daemonCfgPathFlag)
			var err error
			cfg, err = daemon.ReadConfig(daemonCfgPathFlag)
			if err != nil {
				log.Fatal(err)
			}
			cfg.Verbose = rootVerboseFlag
		}

		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				log.Errorf("Can not open log file %s: %v", cfg.LogFile, err)
			} else {
				defer f.Close()
				log.SetOutput(f)
			}
		}
		if !daemonNoSyslog {
			hook, err := lsyslog.NewSyslogHook("", "", syslog.LOG_INFO|syslog.LOG_DAEMON, "rtcsync")
			if err != nil {
				log.Warningf("Can not connect to syslog: %v", err)
			} else {
				log.AddHook(hook)
			}
		}

		stats := daemon.NewJSONStats()
		if cfg.MonitoringPort > 0 {
			go stats.Start(cfg.MonitoringPort)
		}

		w := log.StandardLogger().Writer()
		defer w.Close()
		var l daemon.Logger = daemon.NewDummyLogger(w)
		if daemonCSVLogFlag {
			l = daemon.NewCSVLogger(w)
		}

		d, err := daemon.New(cfg, stats, l)
		if err != nil {
			log.Fatal(err)
		}
		if err := d.Run(context.Background()); err != nil {
			log.Fatal(err)
		}
	},
}
