package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/urguide/internal/flagx"
	"github.com/dmitrijs2005/urguide/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Pointer fields distinguish
// "absent" from "zero".
type JsonConfig struct {
	BaseURL           *string         `json:"base_url"`
	DatabasePath      *string         `json:"database_path"`
	LogFile           *string         `json:"log_file"`
	LogLevel          *string         `json:"log_level"`
	TokenSyncInterval *timex.Duration `json:"token_sync_interval"`
	RetryAttempts     *uint64         `json:"retry_attempts"`
	RateLimit         *float64        `json:"rate_limit"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys missing from the file leave the field untouched.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.TokenSyncInterval != nil {
		cfg.TokenSyncInterval = time.Duration(jc.TokenSyncInterval.Duration)
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
}
