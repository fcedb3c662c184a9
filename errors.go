package soracom

import "github.com/soracom-sdk/soracom-go/internal/apierrors"

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingEndpoint is returned when a client is constructed without an endpoint.
	ErrMissingEndpoint = apierrors.ErrMissingEndpoint

	// ErrNotAuthenticated is returned when an operation runs before Auth or AuthToken.
	ErrNotAuthenticated = apierrors.ErrNotAuthenticated

	// ErrSandboxNotInitialized is returned when a sandbox operation runs before Init.
	ErrSandboxNotInitialized = apierrors.ErrSandboxNotInitialized

	// ErrMissingIMSI is returned when GetSubscriber or RegisterSubscriber gets an empty IMSI.
	ErrMissingIMSI = apierrors.ErrMissingIMSI

	// ErrMissingSandboxToken is returned when DeleteOperator is given no token.
	ErrMissingSandboxToken = apierrors.ErrMissingSandboxToken

	// ErrUnauthorized matches HTTP 401 errors.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrForbidden matches HTTP 403 errors.
	ErrForbidden = apierrors.ErrForbidden

	// ErrNotFound matches HTTP 404 errors.
	ErrNotFound = apierrors.ErrNotFound

	// ErrRateLimited matches HTTP 429 errors.
	ErrRateLimited = apierrors.ErrRateLimited
)

// Error is returned for every failed request or response. Use Kind to tell failures apart:
//
//	var apiErr *soracom.Error
//	if errors.As(err, &apiErr) && apiErr.Kind() == soracom.KindHTTP {
//	    log.Printf("status %d: %s", apiErr.StatusCode, apiErr.Body)
//	}
type Error = apierrors.Error

// ErrorKind identifies the failure class of an Error.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	// KindDecode means a payload did not parse as the expected JSON shape.
	KindDecode = apierrors.KindDecode
	// KindTransport means the request could not be sent or no response arrived.
	KindTransport = apierrors.KindTransport
	// KindURLParse means the endpoint and path did not form a valid URL.
	KindURLParse = apierrors.KindURLParse
	// KindEnvLookup means a required configuration value was missing.
	KindEnvLookup = apierrors.KindEnvLookup
	// KindHTTP means the API answered with a status other than 200.
	KindHTTP = apierrors.KindHTTP
)

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return apierrors.IsKind(err, kind)
}

// StatusCode returns the HTTP status of an HTTP kind error, or 0.
func StatusCode(err error) int {
	return apierrors.StatusCode(err)
}
