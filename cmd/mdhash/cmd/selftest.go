package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	mderrors "massnet.org/mdhash/errors"
	"massnet.org/mdhash/hasher"
)

func (a *app) selftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Runs the built-in known-answer tests.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := hasher.SelfTest(); err != nil {
				return mderrors.WithCode(mderrors.ErrCodeMismatch, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "selftest: %d vectors OK\n", len(hasher.Vectors()))
			return nil
		},
	}
}
