// Package common contains shared constants and sentinel errors used across
// the Ananta client components.
package common

// Keys of the persisted credential record.
const (
	// TokenKey holds the opaque bearer credential.
	TokenKey = "token"
	// AuthFlagKey holds the legacy "true"/"false" authenticated flag.
	AuthFlagKey = "isAuth"
)

// Header names used on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)
