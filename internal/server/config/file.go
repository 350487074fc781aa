package config

import (
	"os"

	"github.com/dmitrijs2005/glucosync/internal/flagx"
	"github.com/dmitrijs2005/glucosync/internal/timex"
)

// FileConfig is the on-disk shape of the server config. Only the fields a
// file names override the defaults.
type FileConfig struct {
	ListenAddr      *string         `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
	DatabaseDSN     *string         `json:"database_dsn" yaml:"database_dsn" toml:"database_dsn"`
	SecretKey       *string         `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	TokenTTL        *timex.Duration `json:"token_ttl" yaml:"token_ttl" toml:"token_ttl"`
	APIKey          *string         `json:"api_key" yaml:"api_key" toml:"api_key"`
	Password        *string         `json:"password" yaml:"password" toml:"password"`
	PasswordHash    *string         `json:"password_hash" yaml:"password_hash" toml:"password_hash"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`

	LogLevel  *string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat *string `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile   *string `json:"log_file" yaml:"log_file" toml:"log_file"`
}

// parseFile overlays cfg with the file named by -c/-config or
// $GLUCOSYNC_CONFIG. It panics if the file cannot be read or decoded.
func parseFile(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.DecodeFile(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	set(&cfg.ListenAddr, fc.ListenAddr)
	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.SecretKey, fc.SecretKey)
	if fc.TokenTTL != nil {
		cfg.TokenTTL = fc.TokenTTL.Duration
	}
	set(&cfg.APIKey, fc.APIKey)
	set(&cfg.Password, fc.Password)
	set(&cfg.PasswordHash, fc.PasswordHash)
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.LogFile, fc.LogFile)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
