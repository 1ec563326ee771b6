package profile

import "errors"

var (
	// ErrNoToken: nothing persisted to authenticate with. No request is made.
	ErrNoToken = errors.New("no token")
	// ErrNetwork wraps transport and HTTP failures of the profile request.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse: no known user shape in the response body.
	ErrMalformedResponse = errors.New("malformed profile response")
	// ErrTimeout: a joined in-flight request did not finish in time and
	// nothing was cached.
	ErrTimeout = errors.New("timed out waiting for profile")
)

// ErrorKind tags a failed fetch for UI callers.
type ErrorKind string

const (
	KindNoToken           ErrorKind = "NoToken"
	KindNetwork           ErrorKind = "NetworkError"
	KindMalformedResponse ErrorKind = "MalformedResponse"
	KindTimeout           ErrorKind = "Timeout"
)

// Kind returns the tag of err, or "" for nil and unknown errors.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoToken):
		return KindNoToken
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return ""
	}
}
