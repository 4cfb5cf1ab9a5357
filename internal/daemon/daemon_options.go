package daemon

import (
	"github.com/tisseltassel/tisseltassel/internal/gateway"
	"github.com/tisseltassel/tisseltassel/internal/transport"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// GatewayOptions contains functional options for the gateway.
	GatewayOptions []gateway.Option

	// TransportOptions contains functional options for the outbound HTTP transport.
	TransportOptions []transport.Option
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
func NewOptions(opts ...Option) (Options, error) {
	var options Options

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

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithGatewayOptions configures gateway options.
// Replaces all previous gateway configuration.
func WithGatewayOptions(gatewayOpts ...gateway.Option) Option {
	return func(o *Options) error {
		o.GatewayOptions = gatewayOpts
		return nil
	}
}

// WithTransportOptions configures the outbound HTTP transport.
// Replaces all previous transport configuration.
func WithTransportOptions(transportOpts ...transport.Option) Option {
	return func(o *Options) error {
		o.TransportOptions = transportOpts
		return nil
	}
}
