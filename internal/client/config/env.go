package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvBaseURL           = "URGUIDE_BASE_URL"
	EnvDatabasePath      = "URGUIDE_DB_PATH"
	EnvLogFile           = "URGUIDE_LOG_FILE"
	EnvLogLevel          = "URGUIDE_LOG_LEVEL"
	EnvTokenSyncInterval = "URGUIDE_TOKEN_SYNC_INTERVAL"
	EnvRetryAttempts     = "URGUIDE_RETRY_ATTEMPTS"
	EnvRateLimit         = "URGUIDE_RATE_LIMIT"
)

// loadDotEnv copies variables from a dotenv file into the process
// environment. Variables that are already set are kept; a missing file is
// not an error.
func loadDotEnv(path string) {
	_ = godotenv.Load(path)
}

// parseEnv overlays Config with URGUIDE_* environment variables. Unset
// variables leave the field untouched. Panics on values that cannot be
// parsed.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDatabasePath); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvTokenSyncInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvTokenSyncInterval, err))
		}
		cfg.TokenSyncInterval = d
	}
	if v, ok := os.LookupEnv(EnvRetryAttempts); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRetryAttempts, err))
		}
		cfg.RetryAttempts = n
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRateLimit, err))
		}
		cfg.RateLimit = f
	}
}
