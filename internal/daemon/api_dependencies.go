package daemon

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8090").
	Addr string

	// Gateway handles requests to the gateway endpoint.
	Gateway http.Handler

	// Logger for API server operations.
	Logger hclog.Logger

	// Registry is exposed read-only through the admin API.
	Registry contracts.ConverterRegistry
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	gateway http.Handler,
	registry contracts.ConverterRegistry,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:     addr,
		Gateway:  gateway,
		Logger:   logger,
		Registry: registry,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Gateway == nil || reflect.ValueOf(d.Gateway).IsNil() {
		return fmt.Errorf("gateway cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("converter registry cannot be nil")
	}
	return nil
}
