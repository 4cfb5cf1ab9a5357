package contracts

import (
	"context"

	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/domain"
)

// ConverterRegistry provides read-only access to the converters known to the gateway.
type ConverterRegistry interface {
	// Converter returns the converter registered under name.
	// It returns a boolean to indicate whether the converter was found.
	Converter(name string) (converter.Converter, bool)

	// List returns all registered converters sorted by name.
	List() []converter.Converter

	// Len returns the number of registered converters.
	Len() int
}

// Transport performs outbound calls against upstream APIs.
type Transport interface {
	// Do issues the call and returns the complete upstream response.
	// Failures are reported as *domain.UpstreamError.
	Do(ctx context.Context, call converter.OutboundCall) (domain.UpstreamResponse, error)
}
