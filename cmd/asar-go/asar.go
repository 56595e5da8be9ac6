package main

import (
	"github.com/Nivl/asar-go/internal/env"
	"github.com/spf13/cobra"
)

// globalFlags contains the data shared by all the subcommands
type globalFlags struct {
	env *env.Env
}

func newRootCmd(e *env.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "asar-go",
		Short:         "asar archive tool in pure Go",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := &globalFlags{
		env: e,
	}

	cmd.AddCommand(newPackCmd(flags))
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newExtractCmd())

	return cmd
}
