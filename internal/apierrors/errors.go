// Package apierrors provides shared error types for the SORACOM client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingEndpoint is returned when a client is constructed without an endpoint.
	ErrMissingEndpoint = errors.New("endpoint is required")

	// ErrNotAuthenticated is returned when an operation needs credentials the client does not hold yet.
	ErrNotAuthenticated = errors.New("client is not authenticated")

	// ErrSandboxNotInitialized is returned when a sandbox operation runs before Init.
	ErrSandboxNotInitialized = errors.New("sandbox client is not initialized")

	// ErrMissingIMSI is returned when a subscriber operation is given an empty IMSI.
	ErrMissingIMSI = errors.New("imsi is required")

	// ErrMissingSandboxToken is returned when a sandbox token is required but nil.
	ErrMissingSandboxToken = errors.New("sandbox token is required")

	// ErrUnauthorized is returned when the API rejects the credentials (401).
	ErrUnauthorized = errors.New("invalid or expired credentials")

	// ErrForbidden is returned when the credentials lack permission (403).
	ErrForbidden = errors.New("operation not permitted")

	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded (429).
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Kind identifies which class of failure an Error represents.
type Kind int

const (
	// KindDecode means a payload did not parse as the expected JSON shape.
	KindDecode Kind = iota + 1
	// KindTransport means the underlying send failed.
	KindTransport
	// KindURLParse means the endpoint and path did not form a valid URL.
	KindURLParse
	// KindEnvLookup means a required configuration value was missing.
	KindEnvLookup
	// KindHTTP means the API answered with a status other than 200.
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindTransport:
		return "transport"
	case KindURLParse:
		return "url"
	case KindEnvLookup:
		return "env"
	case KindHTTP:
		return "http"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type returned by every API operation.
// Exactly one Kind is set; StatusCode and Body are only meaningful for KindHTTP,
// Key only for KindEnvLookup.
type Error struct {
	kind       Kind
	StatusCode int
	Body       string
	Key        string
	Err        error
}

// Kind returns the failure class.
func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Error() string {
	switch e.kind {
	case KindHTTP:
		if e.Body != "" {
			return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("HTTP error %d", e.StatusCode)
	case KindEnvLookup:
		if e.Err != nil {
			return fmt.Sprintf("environment variable %s: %v", e.Key, e.Err)
		}
		return fmt.Sprintf("environment variable %s is not set", e.Key)
	case KindDecode:
		return fmt.Sprintf("decode error: %v", e.Err)
	case KindTransport:
		return fmt.Sprintf("transport error: %v", e.Err)
	case KindURLParse:
		return fmt.Sprintf("url error: %v", e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.kind, e.Err)
}

// Unwrap returns the underlying cause. HTTP errors have none.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	if e.kind != KindHTTP {
		return false
	}
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 403:
		return target == ErrForbidden
	case 404:
		return target == ErrNotFound
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NewDecodeError wraps a JSON decoding failure.
func NewDecodeError(err error) *Error {
	return &Error{kind: KindDecode, Err: err}
}

// NewTransportError wraps a network-level failure.
func NewTransportError(err error) *Error {
	return &Error{kind: KindTransport, Err: err}
}

// NewURLParseError wraps a URL construction failure.
func NewURLParseError(err error) *Error {
	return &Error{kind: KindURLParse, Err: err}
}

// NewEnvLookupError reports a missing configuration value. err may be nil.
func NewEnvLookupError(key string, err error) *Error {
	return &Error{kind: KindEnvLookup, Key: key, Err: err}
}

// NewHTTPError reports a non-200 response. body is kept verbatim.
func NewHTTPError(statusCode int, body string) *Error {
	return &Error{kind: KindHTTP, StatusCode: statusCode, Body: body}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an HTTP error.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.kind == KindHTTP {
		return e.StatusCode
	}
	return 0
}
