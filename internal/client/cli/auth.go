package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/anantaclub/ananta/internal/client/services"
	"github.com/anantaclub/ananta/internal/common"
)

// getSimpleText and getOTP are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getOTP = GetOTP

// Login asks for a mobile number, requests an OTP and verifies the code the
// user types. A code requested less than the resend interval ago is still
// accepted, so the prompt continues without sending a new one.
func (a *App) Login(ctx context.Context) error {
	if a.isAuthenticated() {
		fmt.Fprintln(a.out, "Already signed in. Use 'logout' first.")
		return nil
	}

	mobile, err := getSimpleText(a.reader, "Enter mobile number", a.out)
	if err != nil {
		return err
	}

	err = a.authService.RequestOTP(ctx, mobile)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "OTP sent.")
	case errors.Is(err, services.ErrResendTooSoon):
		fmt.Fprintln(a.out, "An OTP was sent recently, use that one.")
	default:
		fmt.Fprintln(a.out, "Could not send OTP:", describe(err))
		return err
	}

	otp, err := getOTP(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.VerifyOTP(ctx, mobile, otp); err != nil {
		fmt.Fprintln(a.out, "Sign in failed:", describe(err))
		return err
	}

	fmt.Fprintln(a.out, "Signed in.")
	return nil
}

// Logout ends the session. On a storage failure the user is told to retry;
// the session stays as it was.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout failed, run 'logout' again:", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// Status prints the session state, the stored token's expiry and whether
// the backend answers.
func (a *App) Status(ctx context.Context) error {
	if a.isAuthenticated() {
		fmt.Fprintln(a.out, "Session: signed in")
	} else {
		fmt.Fprintln(a.out, "Session: guest")
	}

	info, err := a.session.TokenInfo(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Token: unreadable:", err)
	case !info.Present:
	case info.Opaque:
		fmt.Fprintln(a.out, "Token: present")
	case info.ExpiresAt.IsZero():
		fmt.Fprintln(a.out, "Token: no expiry")
	case info.Expired(time.Now()):
		fmt.Fprintf(a.out, "Token: expired at %s\n", info.ExpiresAt.Format(time.RFC3339))
	default:
		fmt.Fprintf(a.out, "Token: valid until %s\n", info.ExpiresAt.Format(time.RFC3339))
	}

	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Server: unreachable")
		return nil
	}
	fmt.Fprintln(a.out, "Server: online")
	return nil
}

// describe turns service errors into short user-facing text.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, common.ErrInvalidMobile):
		return "enter 10 to 15 digits, optionally starting with +"
	case errors.Is(err, common.ErrInvalidOTP):
		return "the code is 4 to 8 digits"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}
