// Package gateway implements the request pipeline: validation of the inbound payload, dispatch through the
// converter registry to the outbound transport, and normalization of the outcome into a response envelope.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/tisseltassel/tisseltassel/internal/contracts"
)

var _ http.Handler = (*Gateway)(nil)

// Dependencies contains the required collaborators of the Gateway.
type Dependencies struct {
	// Logger for request handling.
	Logger hclog.Logger

	// Registry resolves API types to converters.
	Registry contracts.ConverterRegistry

	// Transport performs outbound calls.
	Transport contracts.Transport
}

// Validate ensures all required dependencies are provided.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("converter registry cannot be nil")
	}
	if d.Transport == nil || reflect.ValueOf(d.Transport).IsNil() {
		return fmt.Errorf("transport cannot be nil")
	}
	return nil
}

// Gateway handles inbound calls independently of how they are hosted.
// It holds no per-request state and is safe for concurrent use.
// New should be used to create instances of Gateway.
type Gateway struct {
	logger       hclog.Logger
	registry     contracts.ConverterRegistry
	dispatcher   *Dispatcher
	cors         CORSHeaders
	maxBodyBytes int64
}

// New creates a Gateway with the provided dependencies and options.
func New(deps Dependencies, opt ...Option) (*Gateway, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for gateway: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway options: %w", err)
	}

	logger := deps.Logger.Named("gateway")

	dispatcher, err := NewDispatcher(logger, deps.Transport)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		logger:       logger,
		registry:     deps.Registry,
		dispatcher:   dispatcher,
		cors:         opts.CORS,
		maxBodyBytes: opts.MaxBodyBytes,
	}, nil
}

// Handle runs a request through the pipeline and always produces exactly one response.
func (g *Gateway) Handle(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return preflight(g.cors)
	}

	v, err := Validate(g.registry, req)
	if err != nil {
		return g.fail(err)
	}

	resp, err := g.dispatcher.Dispatch(ctx, v)
	if err != nil {
		return g.fail(err)
	}

	return respond(g.cors, http.StatusOK, Success(resp.Body))
}

// ServeHTTP adapts the gateway to net/http.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Method != http.MethodOptions && r.Body != nil {
		b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, g.maxBodyBytes))
		if err != nil {
			// An unreadable or oversized body is reported the same way as an unparsable one.
			g.logger.Debug("Failed to read request body", "error", err)
			b = nil
		}
		body = b
	}

	resp := g.Handle(r.Context(), Request{Method: r.Method, Body: body})

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

func (g *Gateway) fail(err error) Response {
	status, env := mapError(g.logger, err)
	return respond(g.cors, status, env)
}
