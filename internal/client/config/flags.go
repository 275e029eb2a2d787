package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/urguide/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the API
//	-d string   path of the local database
//	-i int      token sync interval in seconds (0 disables)
//	-r uint     retry attempts for GET requests
//	-l string   log file
//	-v string   log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-r", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the UrGuide API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	syncInterval := fs.Int("i", int(cfg.TokenSyncInterval.Seconds()), "token sync interval (in seconds)")
	fs.Uint64Var(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "retry attempts for GET requests")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenSyncInterval = time.Duration(*syncInterval) * time.Second
}
