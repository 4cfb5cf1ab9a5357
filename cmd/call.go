package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	cmdopts "github.com/tisseltassel/tisseltassel/internal/cmd/options"
	"github.com/tisseltassel/tisseltassel/internal/cmd/output"
	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/contracts"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/gateway"
	"github.com/tisseltassel/tisseltassel/internal/printer"
	"github.com/tisseltassel/tisseltassel/internal/transport"
)

const (
	flagType   = "type"
	flagMethod = "method"
	flagData   = "data"
	flagBody   = "body"
	flagDryRun = "dry-run"
	flagFormat = "format"
)

// CallCmd should be used to represent the 'call' command.
type CallCmd struct {
	*cmd.BaseCmd
	APIType         string
	APIMethod       string
	APIData         string
	Body            string
	DryRun          bool
	Format          cmd.OutputFormat
	cfgLoader       config.Loader
	registryBuilder converter.Builder
	transport       contracts.Transport
	callPrinter     output.Printer[printer.CallResult]
	outboundPrinter output.Printer[printer.OutboundCallResult]
}

// NewCallCmd creates a newly configured (Cobra) command.
func NewCallCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &CallCmd{
		BaseCmd:         baseCmd,
		Format:          cmd.FormatText,
		cfgLoader:       config.NewValidatingLoader(opts.ConfigLoader, config.RequireConverters),
		registryBuilder: opts.RegistryBuilder,
		transport:       opts.Transport,
		callPrinter:     &printer.CallPrinter{},
		outboundPrinter: &printer.OutboundCallPrinter{},
	}

	cobraCmd := &cobra.Command{
		Use:   "call --type <api> --method <method> [--data <json>] | --body <json>",
		Short: "Sends a single call through the gateway pipeline",
		Long: "Sends a single call through the gateway pipeline without starting a server, " +
			"and prints the response envelope. With --dry-run the outbound request is printed instead of sent.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCmd.Flags().StringVar(&c.APIType, flagType, "", "API type, the name of a configured converter")
	cobraCmd.Flags().StringVar(&c.APIMethod, flagMethod, "", "API method supported by the converter")
	cobraCmd.Flags().StringVar(&c.APIData, flagData, "{}", "API data as a JSON object")
	cobraCmd.Flags().StringVar(&c.Body, flagBody, "", "Raw request body, sent as-is instead of --type/--method/--data")
	cobraCmd.Flags().BoolVar(&c.DryRun, flagDryRun, false, "Print the outbound request without sending it")

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		flagFormat,
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	cobraCmd.MarkFlagsMutuallyExclusive(flagBody, flagType)
	cobraCmd.MarkFlagsMutuallyExclusive(flagBody, flagMethod)
	cobraCmd.MarkFlagsMutuallyExclusive(flagBody, flagData)
	cobraCmd.MarkFlagsOneRequired(flagBody, flagType)

	return cobraCmd, nil
}

func (c *CallCmd) run(cobraCmd *cobra.Command, _ []string) error {
	if err := c.RequireTogether(cobraCmd, flagType, flagMethod); err != nil {
		return err
	}

	body, err := c.requestBody()
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

	req := gateway.Request{Method: http.MethodPost, Body: body}

	if c.DryRun {
		return c.dryRun(cobraCmd, registry, req)
	}

	logger, err := c.Logger()
	if err != nil {
		return err
	}

	t := c.transport
	if t == nil {
		client, err := transport.NewClient(logger, transportOptions(cfg)...)
		if err != nil {
			return fmt.Errorf("failed to create transport: %w", err)
		}
		t = client
	}

	gw, err := gateway.New(
		gateway.Dependencies{Logger: logger, Registry: registry, Transport: t},
		gatewayOptions(cfg)...,
	)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.Format, c.callPrinter)
	if err != nil {
		return err
	}

	resp := gw.Handle(cobraCmd.Context(), req)

	result, err := printer.NewCallResult(resp)
	if err != nil {
		return handler.HandleError(err)
	}

	if err := handler.HandleResult(result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("call failed with status %d", resp.StatusCode)
	}

	return nil
}

// dryRun validates the request and renders the outbound call it would produce.
func (c *CallCmd) dryRun(cobraCmd *cobra.Command, registry contracts.ConverterRegistry, req gateway.Request) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.Format, c.outboundPrinter)
	if err != nil {
		return err
	}

	v, err := gateway.Validate(registry, req)
	if err != nil {
		return handler.HandleError(err)
	}

	call, err := v.Build()
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(printer.NewOutboundCallResult(call))
}

// requestBody returns --body verbatim, or encodes --type, --method and --data as a gateway request.
func (c *CallCmd) requestBody() ([]byte, error) {
	if c.Body != "" {
		return []byte(c.Body), nil
	}

	data := strings.TrimSpace(c.APIData)
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("--%s must be valid JSON", flagData)
	}

	return json.Marshal(struct {
		APIType   string          `json:"apiType"`
		APIMethod string          `json:"apiMethod"`
		APIData   json.RawMessage `json:"apiData"`
	}{
		APIType:   c.APIType,
		APIMethod: c.APIMethod,
		APIData:   json.RawMessage(data),
	})
}
