// Package common defines shared constants and sentinel errors used across
// client and stub server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrInvalidMobile = errors.New("invalid mobile number")
	ErrInvalidOTP    = errors.New("invalid otp")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
