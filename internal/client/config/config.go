package config

import "time"

// Set at build time with
// -ldflags "-X github.com/dmitrijs2005/glucosync/internal/client/config.buildAPIKey=..."
var (
	buildAPIKey   string
	buildPassword string
)

// Config holds runtime settings for the glucosync client.
type Config struct {
	ServerURL string
	APIKey    string
	// Password is exchanged for a bearer token. When empty the CLI prompts.
	Password string

	DatabasePath string
	ExportDir    string

	DefaultUser   string
	AlertsEnabled bool

	SyncInterval        time.Duration
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	BackoffBase         time.Duration
	MaxAttempts         int

	LogLevel  string
	LogFormat string
	LogFile   string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/"
	c.APIKey = buildAPIKey
	c.Password = buildPassword
	c.DatabasePath = "glucosync.db"
	c.ExportDir = "exports"
	c.AlertsEnabled = true
	c.SyncInterval = 30 * time.Minute
	c.OnlineCheckInterval = 10 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.BackoffBase = 30 * time.Second
	c.MaxAttempts = 3
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
