package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	cmdopts "github.com/tisseltassel/tisseltassel/internal/cmd/options"
	"github.com/tisseltassel/tisseltassel/internal/cmd/output"
	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/printer"
)

// ListCmd represents the command for listing configured converters.
// NOTE: Use NewListCmd to create a ListCmd.
type ListCmd struct {
	*cmd.BaseCmd
	Format          cmd.OutputFormat
	cfgLoader       config.Loader
	registryBuilder converter.Builder
	printer         output.Printer[printer.ConverterResult]
}

// NewListCmd creates a newly configured (Cobra) command.
func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	p := &printer.ConverterListPrinter{}
	p.SetHeader(func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "Converters (%d):\n", count)
	})

	c := &ListCmd{
		BaseCmd:         baseCmd,
		Format:          cmd.FormatText,
		cfgLoader:       opts.ConfigLoader,
		registryBuilder: opts.RegistryBuilder,
		printer:         p,
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists configured converters and their API methods",
		Long:  "Lists configured converters, their kind, and the API methods each one supports",
		RunE:  c.run,
		Args:  cobra.NoArgs,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.Format, c.printer)
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig(c.cfgLoader)
	if err != nil {
		return handler.HandleError(err)
	}

	registry, err := c.registryBuilder.Build(cfg.ListConverters()...)
	if err != nil {
		return handler.HandleError(fmt.Errorf("error building converter registry: %w", err))
	}

	converters := registry.List()
	results := make([]printer.ConverterResult, 0, len(converters))
	for _, conv := range converters {
		results = append(results, printer.NewConverterResult(conv))
	}

	if len(results) == 0 && c.Format == cmd.FormatText {
		_, _ = fmt.Fprintf(
			cobraCmd.OutOrStdout(),
			"No converters configured, see: '%s init'\n",
			strings.ToLower(cmd.AppName),
		)
		return nil
	}

	return handler.HandleResults(results...)
}
