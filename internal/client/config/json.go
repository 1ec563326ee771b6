package config

import (
	"encoding/json"
	"os"

	"github.com/anantaclub/ananta/internal/flagx"
	"github.com/anantaclub/ananta/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, non-zero
// values are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	DBPath            string         `json:"db_path"`
	StorageSecret     string         `json:"storage_secret"`
	ProfileTTL        timex.Duration `json:"profile_ttl"`
	WaitTimeout       timex.Duration `json:"wait_timeout"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	OTPResendInterval timex.Duration `json:"otp_resend_interval"`
	LogLevel          string         `json:"log_level"`
	MetricsAddr       string         `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config in args. Nothing happens when neither flag is present.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)
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

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.StorageSecret, jc.StorageSecret)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.ProfileTTL.Duration > 0 {
		cfg.ProfileTTL = jc.ProfileTTL.Duration
	}
	if jc.WaitTimeout.Duration > 0 {
		cfg.WaitTimeout = jc.WaitTimeout.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OTPResendInterval.Duration > 0 {
		cfg.OTPResendInterval = jc.OTPResendInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
