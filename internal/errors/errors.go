// Package errors defines domain-level errors used throughout the gateway.
// These errors represent request handling failures and are mapped to HTTP status codes
// and envelope messages at the gateway boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be rendered to callers.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/gateway/normalize.go)
// 2. Add a test case to TestMapError (internal/gateway/normalize_test.go)
package errors

import (
	"errors"
)

var (
	// ErrWrongVerb indicates the request used a transport verb other than POST.
	// Recommended to map to HTTP 405 Method Not Allowed.
	ErrWrongVerb = errors.New("method not allowed")

	// ErrMalformedBody indicates the request body could not be parsed as a JSON object.
	// Recommended to map to HTTP 400 Bad Request.
	ErrMalformedBody = errors.New("malformed body")

	// ErrEmptyRequest indicates the request body was a JSON object without any keys.
	// Recommended to map to HTTP 400 Bad Request.
	ErrEmptyRequest = errors.New("empty request")

	// ErrMissingParameter indicates one of apiType, apiMethod or apiData was absent.
	// The wrapping error names the first missing parameter.
	// Recommended to map to HTTP 400 Bad Request.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrUnknownAPIType indicates the requested apiType is not present in the converter registry.
	// Recommended to map to HTTP 404 Not Found.
	ErrUnknownAPIType = errors.New("unknown api type")

	// ErrUnknownAPIMethod indicates the requested apiMethod is not supported by the matched converter.
	// Recommended to map to HTTP 404 Not Found.
	ErrUnknownAPIMethod = errors.New("unknown api method")

	// ErrInvalidAPIData indicates apiData was not object-shaped (a scalar or null).
	// Recommended to map to HTTP 400 Bad Request.
	ErrInvalidAPIData = errors.New("invalid api data")

	// ErrArgumentValidationFailed indicates the converter rejected apiData,
	// for example because a field required by the upstream API was absent.
	// Recommended to map to HTTP 400 Bad Request.
	ErrArgumentValidationFailed = errors.New("argument validation failed")

	// ErrUpstreamFailure indicates the outbound call to the third-party API failed,
	// either at the network level or with a non-successful status code.
	// Recommended to map to HTTP 500 Internal Server Error.
	ErrUpstreamFailure = errors.New("upstream request failed")
)
