package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	mderrors "massnet.org/mdhash/errors"
)

func (a *app) checkpointsCmd() *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "checkpoints",
		Short: "Lists unfinished checkpoints.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				n, err := store.Clear()
				if err != nil {
					return mderrors.WithCode(mderrors.ErrCodeIO, err)
				}
				fmt.Fprintf(out, "removed %d checkpoints\n", n)
				return nil
			}

			pending, err := store.Pending()
			if err != nil {
				return mderrors.WithCode(mderrors.ErrCodeIO, err)
			}
			for _, p := range pending {
				fmt.Fprintf(out, "%-6s %12d  %s\n", p.Algorithm, p.Len, p.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every unfinished checkpoint")
	return cmd
}
