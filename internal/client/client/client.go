package client

import (
	"context"
)

// ProfileUpdate is the body of the profile PUT request.
type ProfileUpdate struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

type Client interface {
	Ping(ctx context.Context) error
	SendOTP(ctx context.Context, mobile string) error
	// VerifyOTP returns the bearer token issued for mobile.
	VerifyOTP(ctx context.Context, mobile string, otp string) (string, error)
	// GetProfile returns the raw response body; shape normalization is the
	// caller's job.
	GetProfile(ctx context.Context, token string) ([]byte, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error
}
