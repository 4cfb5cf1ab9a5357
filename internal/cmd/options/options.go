// Package options provides functional options shared by CLI command constructors.
package options

import (
	"fmt"
	"reflect"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/converter"
)

// CmdOption configures CmdOptions.
type CmdOption func(*CmdOptions) error

// CmdOptions holds the collaborators commands depend on.
// NewOptions should be used to create instances of CmdOptions.
type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer
	RegistryBuilder   converter.Builder

	// Transport replaces the HTTP transport built from configuration when set.
	Transport contracts.Transport
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
		RegistryBuilder:   &cmd.BaseCmd{},
	}
}

// NewOptions returns the default options with opt applied in order.
func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(l) {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(i) {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}

func WithRegistryBuilder(b converter.Builder) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(b) {
			return fmt.Errorf("registry builder cannot be nil")
		}
		o.RegistryBuilder = b
		return nil
	}
}

func WithTransport(t contracts.Transport) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(t) {
			return fmt.Errorf("transport cannot be nil")
		}
		o.Transport = t
		return nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
