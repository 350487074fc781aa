package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g., ":8080")
//	-d string              PostgreSQL DSN
//	-s string              token HMAC secret key
//	-t int                 token validity, minutes
//	-k string              API key expected in x-api-key
//	-p string              shared password (hashed at startup)
//	-password-hash string  bcrypt hash of the shared password
//	-l string              log level
//	-log-file string       log file path
//
// The function first filters os.Args to the flags it recognizes using
// flagx.FilterArgs, so the -c/-config flag does not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-p", "-password-hash", "-l", "-log-file"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity duration (in minutes)")

	fs.StringVar(&config.APIKey, "k", config.APIKey, "API key")
	fs.StringVar(&config.Password, "p", config.Password, "shared password")
	fs.StringVar(&config.PasswordHash, "password-hash", config.PasswordHash, "bcrypt hash of the shared password")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFile, "log-file", config.LogFile, "log file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
