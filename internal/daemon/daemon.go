// Package daemon wires the gateway, its transport and the admin API into a long-running server.
package daemon

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/tisseltassel/tisseltassel/internal/gateway"
	"github.com/tisseltassel/tisseltassel/internal/transport"
)

// Daemon runs the gateway until its context is canceled.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	apiServer *APIServer
	logger    hclog.Logger
}

// NewDaemon creates a daemon with the provided dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	httpTransport, err := transport.NewClient(deps.Logger, opts.TransportOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	gw, err := gateway.New(
		gateway.Dependencies{
			Logger:    deps.Logger,
			Registry:  deps.Registry,
			Transport: httpTransport,
		},
		opts.GatewayOptions...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, gw, deps.Registry, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid API server dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		apiServer: apiServer,
		logger:    deps.Logger.Named("daemon"),
	}, nil
}

// StartAndManage serves the gateway and blocks until ctx is canceled or a listener fails.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	d.logger.Info("Starting gateway daemon")

	err := d.apiServer.Start(ctx)

	d.logger.Info("Gateway daemon stopped")

	return err
}
