package config

import (
	"os"
	"time"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/anantaclub/ananta/internal/client/profile"
	"github.com/anantaclub/ananta/internal/client/services"
)

// Config holds runtime settings for the Ananta CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST backend.
//   - DBPath: SQLite file holding the credential record.
//   - StorageSecret: when set, stored values are sealed with a key derived
//     from it.
//   - ProfileTTL: how long a fetched profile is served from cache.
//   - WaitTimeout: how long a caller waits on a profile request already in
//     flight.
//   - RequestTimeout: per-request HTTP timeout.
//   - OTPResendInterval: minimum gap between OTP requests for one number.
//   - LogLevel: debug, info, warn or error.
//   - MetricsAddr: host:port for the /metrics listener; empty disables it.
type Config struct {
	APIBaseURL        string
	DBPath            string
	StorageSecret     string
	ProfileTTL        time.Duration
	WaitTimeout       time.Duration
	RequestTimeout    time.Duration
	OTPResendInterval time.Duration
	LogLevel          string
	MetricsAddr       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DBPath = "ananta.db"
	c.StorageSecret = ""
	c.ProfileTTL = profile.DefaultTTL
	c.WaitTimeout = profile.DefaultWaitTimeout
	c.RequestTimeout = client.DefaultTimeout
	c.OTPResendInterval = services.DefaultOTPResendInterval
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file in the working directory), JSON (if
// present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, envLookup(".env"))
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
