package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseEnv(cfg, mapLookup(map[string]string{
		"ANANTA_API_BASE_URL":        "https://api.example",
		"ANANTA_DB_PATH":             "/tmp/a.db",
		"ANANTA_STORAGE_SECRET":      "s3cret",
		"ANANTA_PROFILE_TTL":         "45s",
		"ANANTA_WAIT_TIMEOUT":        "2s",
		"ANANTA_REQUEST_TIMEOUT":     "20s",
		"ANANTA_OTP_RESEND_INTERVAL": "1m",
		"ANANTA_LOG_LEVEL":           "debug",
		"ANANTA_METRICS_ADDR":        ":9100",
	}))

	want := &Config{
		APIBaseURL:        "https://api.example",
		DBPath:            "/tmp/a.db",
		StorageSecret:     "s3cret",
		ProfileTTL:        45 * time.Second,
		WaitTimeout:       2 * time.Second,
		RequestTimeout:    20 * time.Second,
		OTPResendInterval: time.Minute,
		LogLevel:          "debug",
		MetricsAddr:       ":9100",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_UnsetAndEmptyKeepValues(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	want := *cfg

	parseEnv(cfg, mapLookup(map[string]string{"ANANTA_DB_PATH": ""}))
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	cfg := &Config{}
	require.Panics(t, func() {
		parseEnv(cfg, mapLookup(map[string]string{"ANANTA_PROFILE_TTL": "soon"}))
	})
}

func TestEnvLookup_DotenvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANANTA_DB_PATH=file.db\nANANTA_LOG_LEVEL=warn\n"), 0o600))
	t.Setenv("ANANTA_LOG_LEVEL", "error")

	lookup := envLookup(path)

	v, ok := lookup("ANANTA_DB_PATH")
	require.True(t, ok)
	assert.Equal(t, "file.db", v)

	v, ok = lookup("ANANTA_LOG_LEVEL")
	require.True(t, ok)
	assert.Equal(t, "error", v, "process env wins over .env")

	_, ok = lookup("ANANTA_NOT_SET_ANYWHERE")
	assert.False(t, ok)
}

func TestEnvLookup_MissingFileIsFine(t *testing.T) {
	require.NotPanics(t, func() {
		envLookup(filepath.Join(t.TempDir(), "absent.env"))
	})
}
