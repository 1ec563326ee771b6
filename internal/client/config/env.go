package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "ANANTA_"

// lookupFunc mirrors os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// envLookup returns a lookup over the process environment that falls back to
// the variables in dotenvPath. Real environment variables win. A missing
// file is not an error.
func envLookup(dotenvPath string) lookupFunc {
	file, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		file = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
}

// parseEnv overlays Config with ANANTA_* variables. Unset variables leave
// the current values alone; malformed durations panic.
func parseEnv(cfg *Config, lookup lookupFunc) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("API_BASE_URL", &cfg.APIBaseURL)
	str("DB_PATH", &cfg.DBPath)
	str("STORAGE_SECRET", &cfg.StorageSecret)
	dur("PROFILE_TTL", &cfg.ProfileTTL)
	dur("WAIT_TIMEOUT", &cfg.WaitTimeout)
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("OTP_RESEND_INTERVAL", &cfg.OTPResendInterval)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("METRICS_ADDR", &cfg.MetricsAddr)
}
