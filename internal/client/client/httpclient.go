package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anantaclub/ananta/internal/common"
	"github.com/anantaclub/ananta/internal/logging"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// API paths relative to Config.BaseURL.
const (
	HealthPath    = "/health"
	SendOTPPath   = "/auth/send-otp"
	VerifyOTPPath = "/auth/verify-otp"
	ProfilePath   = "/user/profile"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

const maxBodySize = 1 << 20

// tokenPaths are tried in order on the verify-otp response.
var tokenPaths = []string{"data.token", "data.data.token", "data.access_token", "token"}

// RequestObserver receives the outcome of every request (see package metrics).
type RequestObserver interface {
	ObserveRequest(op string, took time.Duration, err error)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
	Observer   RequestObserver
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
	observer   RequestObserver
}

func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var log logging.Logger = logging.NewNop()
	if cfg.Logger != nil {
		log = cfg.Logger
	}

	return &HTTPClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		log:        log.With("component", "api"),
		observer:   cfg.Observer,
	}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, HealthPath, "", nil)
	return err
}

func (c *HTTPClient) SendOTP(ctx context.Context, mobile string) error {
	_, err := c.do(ctx, "send_otp", http.MethodPost, SendOTPPath, "", map[string]string{"mobile": mobile})
	return err
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, mobile string, otp string) (string, error) {
	body, err := c.do(ctx, "verify_otp", http.MethodPost, VerifyOTPPath, "", map[string]string{"mobile": mobile, "otp": otp})
	if err != nil {
		return "", err
	}

	for _, p := range tokenPaths {
		if tok := gjson.GetBytes(body, p); tok.Type == gjson.String && tok.Str != "" {
			return tok.Str, nil
		}
	}
	return "", ErrTokenNotIssued
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) ([]byte, error) {
	return c.do(ctx, "get_profile", http.MethodGet, ProfilePath, token, nil)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error {
	_, err := c.do(ctx, "update_profile", http.MethodPut, ProfilePath, token, update)
	return err
}

// do sends one request and returns the body of a successful response.
func (c *HTTPClient) do(ctx context.Context, op, method, path, token string, payload any) (body []byte, err error) {
	started := time.Now()
	requestID := uuid.NewString()
	log := c.log.With("op", op, "request_id", requestID)

	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(op, time.Since(started), err)
		}
		if err != nil {
			log.Warn(ctx, "request failed", "error", err, "took", time.Since(started))
			return
		}
		log.Debug(ctx, "request done", "took", time.Since(started))
	}()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrUnavailable, op, err)
	}

	return body, c.mapResponse(resp.StatusCode, body)
}

// mapResponse turns status codes and the {success, message|error} envelope
// into the package sentinels.
func (c *HTTPClient) mapResponse(status int, body []byte) error {
	msg := envelopeMessage(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	case status >= http.StatusInternalServerError:
		if msg != "" {
			return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, msg)
		}
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	case status < 200 || status >= 300:
		return &APIError{Status: status, Message: msg}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if !gjson.ValidBytes(body) {
		return ErrInvalidResponse
	}
	if success := gjson.GetBytes(body, "success"); success.Exists() && !success.Bool() {
		return &APIError{Status: status, Message: msg}
	}
	return nil
}

func envelopeMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, p := range []string{"message", "error", "error.message"} {
		if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
