package gateway

import (
	"fmt"
)

// Options contains optional configuration for the Gateway.
// NewOptions should be used to create instances of Options.
type Options struct {
	// CORS headers attached to every response.
	CORS CORSHeaders

	// MaxBodyBytes limits the request body read by the http.Handler adapter.
	MaxBodyBytes int64
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options starting from defaults and applying opts in order.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		CORS:         DefaultCORSHeaders(),
		MaxBodyBytes: DefaultMaxBodyBytes(),
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

// WithCORSHeaders sets the CORS headers, empty values fall back to the defaults.
func WithCORSHeaders(origin string, methods string, headers string) Option {
	return func(o *Options) error {
		o.CORS = NewCORSHeaders(origin, methods, headers)
		return nil
	}
}

// WithMaxBodyBytes limits the accepted request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("max body bytes must be positive, got %d", n)
		}
		o.MaxBodyBytes = n
		return nil
	}
}

// DefaultMaxBodyBytes is the default request body limit (1 MiB).
func DefaultMaxBodyBytes() int64 {
	return 1 << 20
}
