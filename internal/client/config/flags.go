package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/flagx"
)

var flagNames = []string{"-a", "-k", "-p", "-d", "-u", "-alerts", "-i", "-s", "-t", "-l", "-log-file"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string    base URL of the remote service
//	-k string    API key
//	-p string    password
//	-d string    path of the local database
//	-u string    default owner name
//	-alerts      enable critical-level alerts (use -alerts=false to disable)
//	-i int       online check interval (in seconds)
//	-s duration  sync interval, e.g. 30m
//	-t duration  request timeout
//	-l string    log level
//	-log-file    log file path
//
// Only the flags above are taken from os.Args; other components see the rest.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the remote service")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key")
	fs.StringVar(&cfg.Password, "p", cfg.Password, "password")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.DefaultUser, "u", cfg.DefaultUser, "default owner name")
	fs.BoolVar(&cfg.AlertsEnabled, "alerts", cfg.AlertsEnabled, "enable critical-level alerts")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.SyncInterval, "s", cfg.SyncInterval, "sync interval")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
