package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"massnet.org/mdhash/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version.",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdhash %s\n", version.GetVersion())
		},
	}
}
