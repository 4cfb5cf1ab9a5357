package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:8090").
	APIAddr string

	// Logger for daemon and subcomponent (gateway, transport, API server) operations.
	Logger hclog.Logger

	// Registry holds the converters the gateway dispatches to.
	Registry contracts.ConverterRegistry
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(logger hclog.Logger, apiAddr string, registry contracts.ConverterRegistry) (Dependencies, error) {
	deps := Dependencies{
		APIAddr:  apiAddr,
		Logger:   logger,
		Registry: registry,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("converter registry cannot be nil")
	}

	if d.Registry.Len() == 0 {
		return fmt.Errorf("converter configurations not found")
	}

	return nil
}
