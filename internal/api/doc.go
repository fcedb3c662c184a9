// Package api provides HTTP client functionality for communicating with the
// SORACOM API. It assembles URLs, attaches credential headers, serializes
// request bodies and decodes responses into wire DTOs.
//
// # Transport
//
// Requests go through a [Transport]. The default [RestyTransport] wraps
// go-resty and can optionally guard the endpoint with a circuit breaker that
// opens after consecutive network failures. The breaker never re-sends a
// request; once open it fails fast until its timeout elapses.
//
// # Status Handling
//
// Only HTTP 200 is treated as success. Every other status is returned as an
// HTTP kind error that keeps the response body verbatim:
//
//	if errors.Is(err, apierrors.ErrNotFound) {
//	    // Handle missing subscriber
//	}
//
// No request is retried.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. It holds no per-request state.
package api
