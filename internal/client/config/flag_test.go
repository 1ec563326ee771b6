package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"-a", "http://api:9090", "-d", "x.db", "-t", "10s", "-l", "debug", "-m", ":9100"}, expectPanic: false,
			expected: &Config{APIBaseURL: "http://api:9090", DBPath: "x.db", ProfileTTL: 10 * time.Second, LogLevel: "debug", MetricsAddr: ":9100"}},
		{name: "Test2 foreign flags ignored", args: []string{"-c", "cfg.json", "--a=http://api:1", "-x", "y"}, expectPanic: false,
			expected: &Config{APIBaseURL: "http://api:1"}},
		{name: "Test3 incorrect ttl", args: []string{"-a", "http://api:9090", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config, tt.args) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config, tt.args) })
			}
		})
	}
}
