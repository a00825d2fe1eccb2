package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version, commit and build time",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ewbot version=%s commit=%s built=%s\n",
				opts.build.Version, opts.build.Commit, opts.build.BuildTime)
		},
	}
}
