package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
)

// HealthStatusOK is reported while the gateway is serving requests.
const HealthStatusOK HealthStatus = "ok"

// HealthStatus represents the current status of the gateway.
type HealthStatus string

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Body struct {
		Status     HealthStatus `doc:"Gateway status"                  example:"ok" json:"status"`
		Converters int          `doc:"Number of registered converters" example:"2"  json:"converters"`
	}
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, registry contracts.ConverterRegistry, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getHealth",
			Method:      http.MethodGet,
			Summary:     "Get the gateway health",
			Tags:        []string{"Health"},
		},
		func(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
			return handleHealth(registry)
		},
	)
}

// handleHealth reports the gateway as healthy along with its converter count.
func handleHealth(registry contracts.ConverterRegistry) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = HealthStatusOK
	resp.Body.Converters = registry.Len()

	return resp, nil
}
