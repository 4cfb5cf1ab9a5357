package converters

import (
	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/cmd"
	"github.com/tisseltassel/tisseltassel/internal/cmd/options"
)

func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "converters",
		Short: "Inspects configured converters",
		Long:  "Inspects the converters configured for the gateway, and the API methods each one supports",
	}

	// Sub-commands for: tisseltassel converters
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewListCmd, // list
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
