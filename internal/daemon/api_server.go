package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/tisseltassel/tisseltassel/internal/api"
	"github.com/tisseltassel/tisseltassel/internal/cmd"
	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/errors"
)

// adminPathPrefix is reserved for the admin API.
const adminPathPrefix = "/api"

// readHeaderTimeout bounds how long a client may take to send request headers.
const readHeaderTimeout = 10 * time.Second

// APIServer serves the gateway endpoint and the admin API.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	// Logger for API server operations.
	logger hclog.Logger

	// Gateway handles requests to the gateway endpoint.
	gateway http.Handler

	// Registry is exposed through the admin API.
	registry contracts.ConverterRegistry

	// Addr specifies the network address to bind.
	addr string

	// AdminAddr is the admin listener address, empty when admin routes share addr.
	adminAddr string

	// GatewayPath is the path the gateway endpoint is mounted on.
	gatewayPath string

	// CORS configuration for the admin API.
	cors CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	shutdownTimeout time.Duration
}

// NewAPIServer creates a new API server with the provided dependencies and options.
// Applies default options first, then user-provided options to ensure all fields have valid values.
func NewAPIServer(deps APIDependencies, opt ...APIOption) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	// Ensure we always start with defaults and apply user options on top.
	apiOpts, err := NewAPIOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	if apiOpts.AdminAddr == deps.Addr {
		return nil, fmt.Errorf("admin address must differ from API address '%s'", deps.Addr)
	}

	return &APIServer{
		logger:          deps.Logger.Named("api"),
		gateway:         deps.Gateway,
		registry:        deps.Registry,
		addr:            deps.Addr,
		adminAddr:       apiOpts.AdminAddr,
		gatewayPath:     apiOpts.GatewayPath,
		cors:            apiOpts.CORS,
		shutdownTimeout: apiOpts.ShutdownTimeout,
	}, nil
}

// Handlers builds the HTTP handlers for each listener.
// The admin handler is nil when the admin API shares the gateway listener.
func (a *APIServer) Handlers() (gatewayHandler http.Handler, adminHandler http.Handler, err error) {
	mux := newMux()

	if a.adminAddr != "" {
		admin := newMux()
		if err := a.mountAdmin(admin); err != nil {
			return nil, nil, err
		}
		mux.Handle(a.gatewayPath, a.gateway)
		return mux, admin, nil
	}

	if err := a.mountAdmin(mux); err != nil {
		return nil, nil, err
	}
	mux.Handle(a.gatewayPath, a.gateway)

	return mux, nil, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	gatewayHandler, adminHandler, err := a.Handlers()
	if err != nil {
		return err
	}

	servers := []*http.Server{
		{Addr: a.addr, Handler: gatewayHandler, ReadHeaderTimeout: readHeaderTimeout},
	}
	if adminHandler != nil {
		servers = append(servers, &http.Server{
			Addr:              a.adminAddr,
			Handler:           adminHandler,
			ReadHeaderTimeout: readHeaderTimeout,
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			a.logger.Info("Starting API server", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("API server on %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}

	a.logger.Info("Gateway endpoint ready", "address", a.addr, "path", a.gatewayPath)
	if a.cors.Enabled {
		a.logger.Info("CORS enabled for admin API", "origins", a.cors.AllowOrigins)
	}

	// Handle graceful shutdown.
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.logger.Info("Shutting down API server...")
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		a.logger.Info("Shutdown complete")

		return stdErrors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// mountAdmin registers the admin API and its documentation on mux.
func (a *APIServer) mountAdmin(mux *chi.Mux) error {
	// Middleware must be registered before any route.
	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	config := huma.DefaultConfig(cmd.AppName+" admin", cmd.Version())
	router := humachi.New(mux, config)

	// Configure the error handling wrapping.
	huma.NewErrorWithContext = errorHandler(a.logger)

	apiPathPrefix, err := api.RegisterRoutes(router, a.registry)
	if err != nil {
		return fmt.Errorf("failed to register admin API routes: %w", err)
	}

	a.logger.Info("Admin API routes registered", "prefix", apiPathPrefix)

	return nil
}

// applyCORS applies CORS middleware to admin routes based on the configured options.
// Requests to the gateway endpoint bypass it, since the gateway answers with its own CORS headers.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := cors.Options{
		AllowedOrigins:   a.cors.AllowOrigins,
		AllowedMethods:   a.cors.AllowMethods,
		AllowedHeaders:   a.cors.AllowedHeaders,
		ExposedHeaders:   a.cors.ExposedHeaders,
		AllowCredentials: a.cors.AllowCredentials,
		MaxAge:           int(a.cors.MaxAge.Seconds()),
	}

	// Handle wildcard origins properly.
	for i, origin := range corsOptions.AllowedOrigins {
		if origin == "*" {
			corsOptions.AllowedOrigins = []string{"*"}
			corsOptions.AllowCredentials = false
			break
		}
		corsOptions.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	withCORS := cors.Handler(corsOptions)

	mux.Use(func(next http.Handler) http.Handler {
		admin := withCORS(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.isGatewayPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			admin.ServeHTTP(w, r)
		})
	})
}

// isGatewayPath reports whether path addresses the gateway endpoint, ignoring a trailing slash.
func (a *APIServer) isGatewayPath(path string) bool {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path == a.gatewayPath
}

// newMux returns a router with the middleware shared by every listener.
func newMux() *chi.Mux {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Recoverer)
	return mux
}

// mapError maps application domain errors to appropriate HTTP status codes for the admin API.
//
// The gateway endpoint renders its own errors as envelopes, see internal/gateway/normalize.go.
// Only errors the admin handlers can return need a case here, anything else defaults to HTTP 500.
//
// Don't forget to:
// 1. Add test cases to TestMapError (internal/daemon/api_server_test.go)
// 2. Update the documentation in internal/errors/errors.go
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrUnknownAPIType):
		return huma.Error404NotFound(err.Error())
	default:
		logger.Error("Unexpected error in admin API", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to API friendly errors.
// It allows the logger to be supplied to functions that resolve huma.StatusError,
// and it supports different behaviors based on the variadic errors parameter.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		// Request validation failures raised by huma keep their status and details.
		if status != http.StatusInternalServerError {
			return huma.NewError(status, msg, errs...)
		}

		switch len(errs) {
		case 0:
			// No errors provided; return a generic error.
			return huma.NewError(status, msg)
		case 1:
			// Single error; map it directly.
			return mapError(logger, errs[0])
		default:
			// Multiple errors; join them and map.
			combinedErr := stdErrors.Join(errs...)
			return mapError(logger, combinedErr)
		}
	}
}
