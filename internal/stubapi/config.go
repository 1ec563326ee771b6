// Package stubapi is a small in-memory implementation of the Ananta REST
// backend: OTP login, the current user's profile and a health probe. It is
// meant for local development and end-to-end tests, not production.
package stubapi

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/anantaclub/ananta/internal/flagx"
)

// Config holds runtime settings for the stub backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - OTPCode: the code every OTP verification accepts.
//   - SecretKey: HMAC secret for signing tokens (HS256).
//   - TokenValidityDuration: lifetime of issued tokens.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr                  string
	OTPCode               string
	SecretKey             string
	TokenValidityDuration time.Duration
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.OTPCode = "123456"
	c.SecretKey = "stub-secret"
	c.TokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults overlaid with command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// parseFlags populates Config from command-line flags.
//
//	-addr string      bind address (e.g. ":8080")
//	-otp string       accepted OTP code
//	-secret string    token signing secret
//	-ttl duration     token validity
//	-l string         log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-addr", "-otp", "-secret", "-ttl", "-l"})

	fs := flag.NewFlagSet("stubapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.OTPCode, "otp", cfg.OTPCode, "OTP code accepted by verify-otp")
	fs.StringVar(&cfg.SecretKey, "secret", cfg.SecretKey, "token signing secret")
	fs.DurationVar(&cfg.TokenValidityDuration, "ttl", cfg.TokenValidityDuration, "token validity")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
