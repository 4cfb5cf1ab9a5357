package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	cmdopts "github.com/tisseltassel/tisseltassel/internal/cmd/options"
	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/daemon"
	"github.com/tisseltassel/tisseltassel/internal/flags"
)

const (
	// defaultAddr is used when neither --addr nor the config file sets an address.
	defaultAddr = "0.0.0.0:8090"

	// devAddr is the address used in --dev mode.
	devAddr = "localhost:8090"

	flagAddr      = "addr"
	flagAdminAddr = "admin-addr"
	flagDev       = "dev"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	*cmd.BaseCmd
	Dev             bool
	Addr            string
	AdminAddr       string
	cfgLoader       config.Loader
	registryBuilder converter.Builder
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd:         baseCmd,
		cfgLoader:       config.NewValidatingLoader(opts.ConfigLoader, config.RequireConverters),
		registryBuilder: opts.RegistryBuilder,
	}

	cobraCommand := &cobra.Command{
		Use:     "serve [--dev] [--addr] [--admin-addr]",
		Aliases: []string{"daemon"},
		Short:   "Runs the gateway",
		Long: "Runs the gateway, accepting POSTed API calls on the configured path and " +
			"serving the admin API under /api/v1",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		flagDev,
		false,
		"Run the gateway in development-focused mode, bound to "+devAddr,
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagAddr,
		"",
		fmt.Sprintf("Address for the gateway to bind, overrides the config file (default %s)", defaultAddr),
	)

	cobraCommand.Flags().StringVar(
		&c.AdminAddr,
		flagAdminAddr,
		"",
		"Separate address for the admin API, overrides the config file (shares the gateway listener when empty)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive(flagDev, flagAddr)

	return cobraCommand, nil
}

// run is configured (via NewServeCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig(c.cfgLoader)
	if err != nil {
		return err
	}

	registry, err := c.registryBuilder.Build(cfg.ListConverters()...)
	if err != nil {
		return fmt.Errorf("error building converter registry: %w", err)
	}

	addr := c.resolveAddr(cfg)
	if c.Dev {
		logger.Info("Development-focused mode", "override", devAddr)
		addr = devAddr
	}

	deps, err := daemon.NewDependencies(logger, addr, registry)
	if err != nil {
		return fmt.Errorf("error configuring gateway: %w", err)
	}

	d, err := daemon.NewDaemon(
		deps,
		daemon.WithAPIOptions(apiOptions(cfg, strings.TrimSpace(c.AdminAddr))...),
		daemon.WithGatewayOptions(gatewayOptions(cfg)...),
		daemon.WithTransportOptions(transportOptions(cfg)...),
	)
	if err != nil {
		return fmt.Errorf("failed to create gateway instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		cobraCmd.Context(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	// Print --dev mode banner if required.
	if c.Dev {
		c.printBanner(cobraCmd, addr, cfg, registry.Len())
	}

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down gateway")
		err := <-runErr // Wait for cleanup and deferred logging.
		return err      // Graceful Ctrl+C / SIGTERM.
	case err := <-runErr:
		if err != nil {
			logger.Error("gateway exited with error", "error", err)
		}
		return err
	}
}

// resolveAddr prefers --addr, then the config file, then the default address.
func (c *ServeCmd) resolveAddr(cfg *config.Config) string {
	if addr := strings.TrimSpace(c.Addr); addr != "" {
		return addr
	}
	return cfg.AddrOrDefault(defaultAddr)
}

func (c *ServeCmd) printBanner(cobraCmd *cobra.Command, addr string, cfg *config.Config, converters int) {
	adminAddr := strings.TrimSpace(c.AdminAddr)
	if adminAddr == "" {
		adminAddr = cfg.AdminAddr()
	}
	if adminAddr == "" {
		adminAddr = addr
	}

	banner := fmt.Sprintf("%s gateway running in 'dev' mode.\n\n"+
		"  Gateway:\thttp://%s%s\n"+
		"  Admin API:\thttp://%s/api/v1\n"+
		"  OpenAPI UI:\thttp://%s/docs\n"+
		"  Config file:\t%s\n"+
		"  Converters:\t%d\n",
		cmd.AppName, addr, cfg.PathOrDefault(daemon.DefaultGatewayPath()), adminAddr, adminAddr, flags.ConfigFile, converters)

	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}

	banner += "\nPress Ctrl+C to stop.\n\n"
	_, _ = fmt.Fprint(cobraCmd.OutOrStdout(), banner)
}
