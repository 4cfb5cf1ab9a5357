package config

import (
	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	"github.com/tisseltassel/tisseltassel/internal/cmd/options"
)

func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Manages gateway configuration",
		Long:  "Manages the gateway configuration file, including API settings, CORS, transport and converters",
	}

	// Sub-commands for: tisseltassel config
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewValidateCmd, // validate
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
