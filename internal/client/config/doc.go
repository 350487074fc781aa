// Package config loads runtime configuration for the glucosync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), including the API key
//     and password injected at build time via -ldflags.
//  2. Optional config file selected by -c/-config or $GLUCOSYNC_CONFIG.
//     JSON, YAML and TOML are accepted, picked by file extension.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "30m" or
// integer nanoseconds:
//
//	{
//	  "server_url": "https://kulus.example/",
//	  "api_key": "...",
//	  "default_user": "Pat",
//	  "sync_interval": "30m",
//	  "request_timeout": "30s",
//	  "backoff_base": "30s",
//	  "max_attempts": 3,
//	  "log_file": "glucosync.log",
//	  "s3_bucket": "exports"
//	}
package config
