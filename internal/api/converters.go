package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/errors"
)

// DomainConverter is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainConverter struct {
	converter.Converter
}

// Converter describes a registered converter.
type Converter struct {
	Name    string   `doc:"API type used as apiType"         example:"lastFM"               json:"name"`
	Kind    string   `doc:"Converter implementation"         example:"lastfm"               json:"kind"`
	Methods []string `doc:"Methods accepted as apiMethod" example:"user.getRecentTracks" json:"methods"`
}

// ConvertersResponse represents the wrapped API response for a list of converters.
type ConvertersResponse struct {
	Body []Converter
}

// ConverterRequest represents the incoming API request for a single converter.
type ConverterRequest struct {
	Name string `doc:"Name of the converter" example:"lastFM" path:"name"`
}

// ConverterResponse represents the wrapped API response for a single converter.
type ConverterResponse struct {
	Body Converter
}

var _ Convertible[Converter] = DomainConverter{}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainConverter) ToAPIType() (Converter, error) {
	if d.Converter == nil {
		return Converter{}, fmt.Errorf("converter cannot be nil")
	}

	methods := d.Methods()
	if methods == nil {
		methods = []string{}
	}

	return Converter{
		Name:    d.Name(),
		Kind:    d.Kind(),
		Methods: methods,
	}, nil
}

// RegisterConverterRoutes sets up converter-related API endpoints.
func RegisterConverterRoutes(routerAPI huma.API, registry contracts.ConverterRegistry, apiPathPrefix string) {
	convertersAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Converters"}

	// Add route at the root of the group (no path specified).
	huma.Register(
		convertersAPI,
		huma.Operation{
			OperationID: "listConverters",
			Method:      http.MethodGet,
			Summary:     "List all converters",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ConvertersResponse, error) {
			return handleConverters(registry)
		},
	)

	huma.Register(
		convertersAPI,
		huma.Operation{
			OperationID: "getConverter",
			Method:      http.MethodGet,
			Path:        "/{name}",
			Summary:     "Get a converter and its methods",
			Tags:        tags,
		},
		func(ctx context.Context, input *ConverterRequest) (*ConverterResponse, error) {
			return handleConverter(registry, input.Name)
		},
	)
}

// handleConverters returns all registered converters sorted by name.
func handleConverters(registry contracts.ConverterRegistry) (*ConvertersResponse, error) {
	list := registry.List()

	converters := make([]Converter, 0, len(list))
	for _, c := range list {
		data, err := DomainConverter{c}.ToAPIType()
		if err != nil {
			return nil, err
		}
		converters = append(converters, data)
	}

	resp := &ConvertersResponse{}
	resp.Body = converters

	return resp, nil
}

// handleConverter returns a single converter by name.
func handleConverter(registry contracts.ConverterRegistry, name string) (*ConverterResponse, error) {
	c, ok := registry.Converter(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownAPIType, name)
	}

	data, err := DomainConverter{c}.ToAPIType()
	if err != nil {
		return nil, err
	}

	return &ConverterResponse{Body: data}, nil
}
