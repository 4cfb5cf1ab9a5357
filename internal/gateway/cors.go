package gateway

import (
	"strings"
)

const (
	// DefaultAllowOrigin is sent when no origin is configured.
	DefaultAllowOrigin = "*"

	// DefaultAllowMethods is sent when no methods are configured.
	DefaultAllowMethods = "GET,POST,OPTIONS"

	// DefaultAllowHeaders is sent when no headers are configured.
	DefaultAllowHeaders = "Content-Type"
)

const (
	headerAllowOrigin  = "Access-Control-Allow-Origin"
	headerAllowMethods = "Access-Control-Allow-Methods"
	headerAllowHeaders = "Access-Control-Allow-Headers"
	headerContentType  = "Content-Type"
)

// CORSHeaders are the static cross-origin headers attached to every gateway response.
type CORSHeaders struct {
	Origin  string
	Methods string
	Headers string
}

// NewCORSHeaders returns CORS headers, substituting defaults for empty values.
func NewCORSHeaders(origin string, methods string, headers string) CORSHeaders {
	return CORSHeaders{
		Origin:  valueOrDefault(origin, DefaultAllowOrigin),
		Methods: valueOrDefault(methods, DefaultAllowMethods),
		Headers: valueOrDefault(headers, DefaultAllowHeaders),
	}
}

// DefaultCORSHeaders returns the headers used when nothing is configured.
func DefaultCORSHeaders() CORSHeaders {
	return NewCORSHeaders("", "", "")
}

// Map returns the headers keyed by their canonical names.
func (c CORSHeaders) Map() map[string]string {
	return map[string]string{
		headerAllowOrigin:  c.Origin,
		headerAllowMethods: c.Methods,
		headerAllowHeaders: c.Headers,
	}
}

func valueOrDefault(v string, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
