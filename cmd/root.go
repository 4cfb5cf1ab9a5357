package cmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/tisseltassel/tisseltassel/cmd/config"
	"github.com/tisseltassel/tisseltassel/cmd/converters"
	"github.com/tisseltassel/tisseltassel/internal/cmd"
	cmdopts "github.com/tisseltassel/tisseltassel/internal/cmd/options"
	"github.com/tisseltassel/tisseltassel/internal/flags"
)

// RootCmd should be used to represent the root command.
type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the root command and runs it against os.Args.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every sub-command attached.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:          cmd.AppName + " <command> [args]",
		Short:        "'" + cmd.AppName + "' forwards normalized API calls to third-party HTTP APIs.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewInitCmd,
		NewServeCmd,
		NewCallCmd,
		converters.NewCmd,
		configcmd.NewCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The '` + cmd.AppName + `' CLI runs a request-forwarding gateway.

Clients POST a JSON object naming an API type, a method and its data. The gateway
translates it into a concrete HTTP call using a configured converter, performs the
call, and answers with a uniform success or error envelope.`
}
