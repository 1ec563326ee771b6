package config

import (
	"flag"
	"io"

	"github.com/anantaclub/ananta/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    base URL of the REST backend
//	-d string    path of the local SQLite database
//	-t duration  profile cache TTL, e.g. 30s
//	-l string    log level
//	-m string    metrics listen address
//
// args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c) do not break parsing. Panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the local database")
	fs.DurationVar(&cfg.ProfileTTL, "t", cfg.ProfileTTL, "profile cache TTL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
