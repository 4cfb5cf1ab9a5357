package converter

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// ErrInvalidData is returned (wrapped) by a Method when apiData is semantically invalid for the upstream API,
// for example when a field the API requires is absent.
var ErrInvalidData = errors.New("invalid api data")

// Method is a pure function translating apiData into the call that should be made to the upstream API.
// It must not have side effects, and repeated calls with equal data must produce equal results.
// A returned error wrapping ErrInvalidData signals that the data was rejected.
type Method func(data Data) (OutboundCall, error)

// Converter translates abstract method calls into concrete HTTP calls for one third-party API.
type Converter interface {
	// Name is the API type callers use to address this converter.
	Name() string

	// Kind identifies the implementation backing the converter (e.g. "lastfm").
	Kind() string

	// Method returns the named method, and whether it exists.
	Method(name string) (Method, bool)

	// Methods returns the sorted names of all supported methods.
	Methods() []string
}

// OutboundCall fully describes the HTTP request to issue against the upstream API.
type OutboundCall struct {
	// URL is the absolute URL, including any query string.
	URL string `json:"url" yaml:"url"`

	// Options overrides request defaults. Nil means a plain GET without extra headers or body.
	Options *CallOptions `json:"options" yaml:"options"`
}

// CallOptions holds the request details beyond the URL.
type CallOptions struct {
	Method  string            `json:"method,omitempty"  yaml:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty"    yaml:"body,omitempty"`
}

// MethodSet is a name-keyed collection of methods, suitable for embedding in Converter implementations.
type MethodSet map[string]Method

// Invalid returns an error wrapping ErrInvalidData with the formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}

// Verb returns the HTTP method for the call, defaulting to GET.
func (c OutboundCall) Verb() string {
	if c.Options == nil || strings.TrimSpace(c.Options.Method) == "" {
		return http.MethodGet
	}
	return strings.ToUpper(strings.TrimSpace(c.Options.Method))
}

// Method returns the named method, and whether it exists.
func (s MethodSet) Method(name string) (Method, bool) {
	m, ok := s[name]
	return m, ok
}

// Methods returns the sorted names of all methods in the set.
func (s MethodSet) Methods() []string {
	return slices.Sorted(maps.Keys(s))
}
