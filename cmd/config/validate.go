package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	cmdopts "github.com/tisseltassel/tisseltassel/internal/cmd/options"
	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
)

type ValidateCmd struct {
	*cmd.BaseCmd
	cfgLoader       config.Loader
	registryBuilder converter.Builder
}

func NewValidateCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ValidateCmd{
		BaseCmd:         baseCmd,
		cfgLoader:       config.NewValidatingLoader(opts.ConfigLoader, config.RequireConverters),
		registryBuilder: opts.RegistryBuilder,
	}

	cobraCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate gateway configuration",
		Long:  "Validate the gateway configuration file, including that every converter can be constructed",
		RunE:  c.run,
		Args:  cobra.NoArgs,
	}

	return cobraCmd, nil
}

func (c *ValidateCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.LoadConfig(c.cfgLoader)
	if err != nil {
		return err
	}

	if err := c.validate(cfg); err != nil {
		_, _ = fmt.Fprintf(cobraCmd.ErrOrStderr(), "✗ Configuration validation failed: %v\n", err)
		return err
	}

	_, _ = fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Configuration is valid (%d converters)\n", len(cfg.Converters))
	return nil
}

// validate checks the sections that carry their own rules, then builds the converter registry.
func (c *ValidateCmd) validate(cfg *config.Config) error {
	var errs []error

	if cfg.API != nil {
		if err := cfg.API.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("api configuration error: %w", err))
		}
	}

	if cfg.Transport != nil {
		if err := cfg.Transport.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("transport configuration error: %w", err))
		}
	}

	if _, err := c.registryBuilder.Build(cfg.ListConverters()...); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
