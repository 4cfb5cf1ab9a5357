package transport

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Options contains optional configuration for the HTTP transport.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Timeout bounds a single outbound request, including reading the body.
	Timeout time.Duration

	// Retries is the number of additional attempts on connection errors and 5xx responses.
	Retries int

	// UserAgent is sent when the call does not set its own User-Agent header.
	UserAgent string

	// HTTPClient replaces the pooled default client, Timeout is then not applied.
	HTTPClient *http.Client
}

// Option defines a functional option for configuring Options.
type Option func(*Options) error

// NewOptions creates Options starting from defaults and applying opts in order.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Timeout:   DefaultTimeout(),
		Retries:   DefaultRetries(),
		UserAgent: DefaultUserAgent(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.Timeout = timeout
		return nil
	}
}

// WithRetries sets the number of retries.
func WithRetries(retries int) Option {
	return func(o *Options) error {
		if retries < 0 {
			return fmt.Errorf("retries cannot be negative, got %d", retries)
		}
		o.Retries = retries
		return nil
	}
}

// WithUserAgent sets the default User-Agent header, an empty value keeps the current one.
func WithUserAgent(userAgent string) Option {
	return func(o *Options) error {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			o.UserAgent = ua
		}
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = client
		return nil
	}
}

// DefaultTimeout is the default time allowed for one outbound request.
func DefaultTimeout() time.Duration {
	return 30 * time.Second
}

// DefaultRetries is the default number of retries: calls are attempted once.
func DefaultRetries() int {
	return 0
}

// DefaultUserAgent is the default outbound User-Agent.
func DefaultUserAgent() string {
	return "tisseltassel"
}
