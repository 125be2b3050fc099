package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	mderrors "massnet.org/mdhash/errors"
	"massnet.org/mdhash/hasher"
	"massnet.org/mdhash/logging"
)

func (a *app) checkCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "check <sum_file>",
		Short: "Verifies files against a checksum file.",
		Long: "Reads '<hex>  <name>' lines and verifies each named file.\n" +
			"\nArguments:\n" +
			"  <sum_file>   required, '-' reads stdin.\n",
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyHasherFlags(cmd); err != nil {
				return err
			}
			h, release, err := a.newHasher(false)
			if err != nil {
				return err
			}
			defer release()

			var r io.Reader = a.stdin
			if args[0] != stdinName {
				f, err := os.Open(args[0])
				if err != nil {
					return mderrors.WithCode(mderrors.ErrCodeIO, err)
				}
				defer f.Close()
				r = f
			}
			entries, err := hasher.ReadEntries(r, h.Algorithm().Size())
			if err != nil {
				return mderrors.WithCode(mderrors.ErrCodeUsage, err)
			}

			ctx, cancel := interruptContext()
			defer cancel()

			return reportVerdicts(cmd.OutOrStdout(), h.Verify(ctx, entries), quiet)
		},
	}
	addHasherFlags(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "don't print OK for each verified file")
	return cmd
}

// reportVerdicts prints one line per verdict and returns the error deciding
// the exit code. Cancellation wins over mismatches, which win over read
// failures.
func reportVerdicts(out io.Writer, verdicts []*hasher.Verdict, quiet bool) error {
	var mismatched, unreadable, canceled int
	for _, v := range verdicts {
		err := v.Err()
		switch cause := errors.Cause(err); {
		case err == nil:
			if !quiet {
				fmt.Fprintf(out, "%s: OK\n", v.Path)
			}
		case cause == hasher.ErrChecksumMismatch:
			mismatched++
			fmt.Fprintf(out, "%s: FAILED\n", v.Path)
		case cause == context.Canceled:
			canceled++
			fmt.Fprintf(out, "%s: FAILED canceled\n", v.Path)
		default:
			unreadable++
			fmt.Fprintf(out, "%s: FAILED open or read\n", v.Path)
			logging.VPrint(logging.WARN, "cannot verify file", logging.LogFormat{"path": v.Path, "err": err})
		}
	}

	switch {
	case canceled > 0:
		return mderrors.WithCode(mderrors.ErrCodeCanceled,
			fmt.Errorf("%d of %d listed files were not verified", canceled, len(verdicts)))
	case mismatched > 0:
		return mderrors.WithCode(mderrors.ErrCodeMismatch,
			fmt.Errorf("%d of %d computed checksums did NOT match", mismatched, len(verdicts)))
	case unreadable > 0:
		return mderrors.WithCode(mderrors.ErrCodeIO,
			fmt.Errorf("%d of %d listed files could not be read", unreadable, len(verdicts)))
	}
	return nil
}
