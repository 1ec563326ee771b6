// Package services contains application services for the Ananta client.
// This file defines the authentication service: OTP request and
// verification, logout and the backend liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/anantaclub/ananta/internal/common"
	"github.com/anantaclub/ananta/internal/logging"
	"golang.org/x/time/rate"
)

// DefaultOTPResendInterval is the minimum gap between two OTP requests for
// the same mobile number.
const DefaultOTPResendInterval = 30 * time.Second

var ErrResendTooSoon = errors.New("otp was requested recently, try again later")

var (
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	otpPattern    = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - RequestOTP: ask the backend to send a one-time code to mobile.
//   - VerifyOTP: exchange mobile+code for a token and start the session.
//   - Logout: end the session and forget local credentials.
//   - Ping: check backend liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	RequestOTP(ctx context.Context, mobile string) error
	VerifyOTP(ctx context.Context, mobile string, otp string) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Session is the part of session.Store the service drives.
type Session interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
}

type AuthOptions struct {
	ResendInterval time.Duration
	Logger         logging.Logger
	// Now is the clock for the resend throttle; time.Now when nil.
	Now func() time.Time
}

// authService is the concrete AuthService backed by a remote Client and the
// session store.
type authService struct {
	client  client.Client
	session Session
	log     logging.Logger
	every   rate.Limit
	now     func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewAuthService constructs an AuthService bound to the given API client and
// session.
func NewAuthService(c client.Client, s Session, opts AuthOptions) AuthService {
	interval := opts.ResendInterval
	if interval <= 0 {
		interval = DefaultOTPResendInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{
		client:   c,
		session:  s,
		log:      log.With("component", "auth"),
		every:    rate.Every(interval),
		now:      now,
		limiters: make(map[string]*rate.Limiter),
	}
}

// NormalizeMobile strips spaces and dashes and validates the result.
func NormalizeMobile(mobile string) (string, error) {
	m := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(mobile))
	if !mobilePattern.MatchString(m) {
		return "", common.ErrInvalidMobile
	}
	return m, nil
}

func (a *authService) limiter(mobile string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.limiters[mobile]
	if !ok {
		l = rate.NewLimiter(a.every, 1)
		a.limiters[mobile] = l
	}
	return l
}

// RequestOTP validates mobile and asks the backend to send a code. A failed
// request does not count against the resend throttle.
func (a *authService) RequestOTP(ctx context.Context, mobile string) error {
	m, err := NormalizeMobile(mobile)
	if err != nil {
		return err
	}

	now := a.now()
	r := a.limiter(m).ReserveN(now, 1)
	if !r.OK() || r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return ErrResendTooSoon
	}

	if err := a.client.SendOTP(ctx, m); err != nil {
		r.CancelAt(now)
		a.log.Warn(ctx, "send otp failed", "error", err)
		return fmt.Errorf("send otp: %w", err)
	}

	a.log.Info(ctx, "otp requested")
	return nil
}

// VerifyOTP exchanges the code for a token and persists it via the session.
func (a *authService) VerifyOTP(ctx context.Context, mobile string, otp string) error {
	m, err := NormalizeMobile(mobile)
	if err != nil {
		return err
	}
	otp = strings.TrimSpace(otp)
	if !otpPattern.MatchString(otp) {
		return common.ErrInvalidOTP
	}

	token, err := a.client.VerifyOTP(ctx, m, otp)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}

	if err := a.session.Login(ctx, token); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	// A fresh session may ask for a new code right away after a later logout.
	a.mu.Lock()
	delete(a.limiters, m)
	a.mu.Unlock()
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
