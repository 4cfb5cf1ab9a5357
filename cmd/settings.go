package cmd

import (
	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/daemon"
	"github.com/tisseltassel/tisseltassel/internal/gateway"
	"github.com/tisseltassel/tisseltassel/internal/transport"
)

// gatewayOptions maps configuration onto gateway options.
func gatewayOptions(cfg *config.Config) []gateway.Option {
	cors := cfg.CORS()

	return []gateway.Option{
		gateway.WithCORSHeaders(
			cors.OriginOrDefault(gateway.DefaultAllowOrigin),
			cors.MethodsOrDefault(gateway.DefaultAllowMethods),
			cors.HeadersOrDefault(gateway.DefaultAllowHeaders),
		),
		gateway.WithMaxBodyBytes(cfg.MaxBodyBytesOrDefault(gateway.DefaultMaxBodyBytes())),
	}
}

// transportOptions maps configuration onto outbound transport options.
func transportOptions(cfg *config.Config) []transport.Option {
	t := cfg.Transport

	return []transport.Option{
		transport.WithTimeout(t.TimeoutOrDefault(transport.DefaultTimeout())),
		transport.WithRetries(t.RetriesOrDefault(transport.DefaultRetries())),
		transport.WithUserAgent(t.UserAgentOrDefault(transport.DefaultUserAgent())),
	}
}

// apiOptions maps configuration onto API server options.
// adminAddr takes precedence over the configured admin address when set.
func apiOptions(cfg *config.Config, adminAddr string) []daemon.APIOption {
	cors := cfg.CORS()

	if adminAddr == "" {
		adminAddr = cfg.AdminAddr()
	}

	opts := []daemon.APIOption{
		daemon.WithGatewayPath(cfg.PathOrDefault(daemon.DefaultGatewayPath())),
		daemon.WithAdminAddr(adminAddr),
		daemon.WithShutdownTimeout(cfg.ShutdownTimeoutOrDefault(daemon.DefaultAPIShutdownTimeout())),
		daemon.WithCORSEnabled(cors.EnableOrDefault(false)),
	}

	if !cors.EnableOrDefault(false) {
		return opts
	}

	opts = append(
		opts,
		daemon.WithCORSAllowOrigins(config.SplitList(cors.OriginOrDefault(gateway.DefaultAllowOrigin))),
		daemon.WithCORSAllowCredentials(cors.CredentialsOrDefault(daemon.DefaultCORSAllowCredentials())),
		daemon.WithCORSMaxAge(cors.MaxAgeOrDefault(daemon.DefaultCORSMaxAge())),
	)
	if methods := config.SplitList(cors.MethodsOrDefault("")); len(methods) > 0 {
		opts = append(opts, daemon.WithCORSAllowMethods(methods))
	}
	if headers := config.SplitList(cors.HeadersOrDefault("")); len(headers) > 0 {
		opts = append(opts, daemon.WithCORSAllowHeaders(headers))
	}

	return opts
}
