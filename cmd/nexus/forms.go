package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/nexus-site/framework/app"
)

func newFormsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the validated forms found on the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(
				app.WithEnvFiles(flags.envFiles...),
				app.WithLogOutput(cmd.ErrOrStderr()),
			)
			if err := a.Boot(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range a.Forms().All() {
				fmt.Fprintf(w, "%s\t%q\n", f.Name, f.SubmitLabel)
				for _, fd := range f.Fields {
					rules := fd.String()
					if rules == "" {
						rules = "-"
					}
					fmt.Fprintf(w, "  %s\t%s\n", fd.Name, rules)
				}
			}
			return w.Flush()
		},
	}
}
