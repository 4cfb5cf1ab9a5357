package domain

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/tisseltassel/tisseltassel/internal/errors"
)

// UpstreamResponse is the result of a successful outbound call.
type UpstreamResponse struct {
	// StatusCode is the HTTP status returned by the upstream API.
	StatusCode int

	// Header holds the upstream response headers.
	Header http.Header

	// Body is the complete upstream response body.
	Body []byte
}

// UpstreamError describes a failed outbound call.
// It satisfies errors.Is for errors.ErrUpstreamFailure.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the upstream API, or zero when no response was received.
	StatusCode int

	// Body is the upstream response body, when a response was received.
	Body []byte

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("upstream responded with status %d: %s", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("upstream request failed: %s", e.Err)
	default:
		return errors.ErrUpstreamFailure.Error()
	}
}

// Unwrap exposes both errors.ErrUpstreamFailure and the underlying cause.
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrUpstreamFailure}
	}
	return []error{errors.ErrUpstreamFailure, e.Err}
}

// HasBody reports whether the upstream returned a response body.
func (e *UpstreamError) HasBody() bool {
	return len(e.Body) > 0
}

// UpstreamBody extracts the upstream response body carried by err, if any.
func UpstreamBody(err error) ([]byte, bool) {
	var ue *UpstreamError
	if !stdErrors.As(err, &ue) || !ue.HasBody() {
		return nil, false
	}
	return ue.Body, true
}
