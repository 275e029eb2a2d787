package config

import "time"

// Config holds runtime settings for the UrGuide CLI.
//
// Fields:
//   - BaseURL: root of the UrGuide REST API.
//   - DatabasePath: SQLite file holding the session slot.
//   - LogFile: optional file receiving JSON log records.
//   - LogLevel: debug, info, warn or error.
//   - TokenSyncInterval: how often the stored token is re-read to pick up
//     logins and logouts made by another process. Zero disables it.
//   - RetryAttempts: retries of failed GET requests. Zero disables retry.
//   - RateLimit: maximum requests per second. Zero disables limiting.
type Config struct {
	BaseURL           string
	DatabasePath      string
	LogFile           string
	LogLevel          string
	TokenSyncInterval time.Duration
	RetryAttempts     uint64
	RateLimit         float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3000"
	c.DatabasePath = "urguide.db"
	c.LogFile = ""
	c.LogLevel = "info"
	c.TokenSyncInterval = 3 * time.Second
	c.RetryAttempts = 0
	c.RateLimit = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv(".env")
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
