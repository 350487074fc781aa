package config

import (
	"os"

	"github.com/dmitrijs2005/glucosync/internal/flagx"
	"github.com/dmitrijs2005/glucosync/internal/timex"
)

// FileConfig is the on-disk shape of the config. Pointer fields distinguish
// "absent" from zero values so that a file only overrides what it names.
type FileConfig struct {
	ServerURL    *string `json:"server_url" yaml:"server_url" toml:"server_url"`
	APIKey       *string `json:"api_key" yaml:"api_key" toml:"api_key"`
	Password     *string `json:"password" yaml:"password" toml:"password"`
	DatabasePath *string `json:"database_path" yaml:"database_path" toml:"database_path"`
	ExportDir    *string `json:"export_dir" yaml:"export_dir" toml:"export_dir"`

	DefaultUser   *string `json:"default_user" yaml:"default_user" toml:"default_user"`
	AlertsEnabled *bool   `json:"alerts_enabled" yaml:"alerts_enabled" toml:"alerts_enabled"`

	SyncInterval        *timex.Duration `json:"sync_interval" yaml:"sync_interval" toml:"sync_interval"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval" toml:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	BackoffBase         *timex.Duration `json:"backoff_base" yaml:"backoff_base" toml:"backoff_base"`
	MaxAttempts         *int            `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`

	LogLevel  *string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat *string `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile   *string `json:"log_file" yaml:"log_file" toml:"log_file"`

	S3Bucket    *string `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Region    *string `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3Endpoint  *string `json:"s3_endpoint" yaml:"s3_endpoint" toml:"s3_endpoint"`
	S3AccessKey *string `json:"s3_access_key" yaml:"s3_access_key" toml:"s3_access_key"`
	S3SecretKey *string `json:"s3_secret_key" yaml:"s3_secret_key" toml:"s3_secret_key"`
}

// parseFile overlays cfg with the file named by -c/-config or
// $GLUCOSYNC_CONFIG. It panics on read or decode errors.
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
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.Password, fc.Password)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.ExportDir, fc.ExportDir)
	setString(&cfg.DefaultUser, fc.DefaultUser)
	if fc.AlertsEnabled != nil {
		cfg.AlertsEnabled = *fc.AlertsEnabled
	}

	setDuration(&cfg.SyncInterval, fc.SyncInterval)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.BackoffBase, fc.BackoffBase)
	if fc.MaxAttempts != nil {
		cfg.MaxAttempts = *fc.MaxAttempts
	}

	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogFile, fc.LogFile)

	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
}
