// Package config loads runtime configuration for the Ananta CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. ANANTA_* environment variables, with a .env file in the working
//     directory as fallback (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string    base URL of the REST backend
//	-d string    SQLite database path
//	-t duration  profile cache TTL
//	-l string    log level
//	-m string    metrics listen address
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.ananta.club",
//	  "db_path": "ananta.db",
//	  "profile_ttl": "30s",
//	  "wait_timeout": "5s",
//	  "request_timeout": "15s",
//	  "otp_resend_interval": "30s",
//	  "log_level": "info",
//	  "metrics_addr": "127.0.0.1:9100"
//	}
//
// The storage secret is best passed through ANANTA_STORAGE_SECRET rather
// than flags, which show up in process listings.
package config
