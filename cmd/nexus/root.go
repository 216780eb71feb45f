package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "nexus",
		Short:         "Nexus serves the site and its validated forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env", nil, "Env files to load (default .env)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newFormsCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
