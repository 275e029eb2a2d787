// Package config loads runtime configuration for the UrGuide CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then URGUIDE_* environment
//     variables (see parseEnv). Variables already set win over the file.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API
//	-d string   path of the local database
//	-i int      token sync interval (seconds)
//	-r uint     retry attempts for GET requests
//	-l string   log file
//	-v string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:3000",
//	  "database_path": "urguide.db",
//	  "log_file": "urguide.log",
//	  "log_level": "debug",
//	  "token_sync_interval": "3s",
//	  "retry_attempts": 2,
//	  "rate_limit": 5
//	}
package config
