package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	mderrors "massnet.org/mdhash/errors"
	"massnet.org/mdhash/hasher"
	"massnet.org/mdhash/hashutil"
	"massnet.org/mdhash/logging"
)

const stdinName = "-"

var errInvalidWorkers = errors.New("workers must not be negative")

func (a *app) sumCmd() *cobra.Command {
	var (
		str    string
		resume bool
	)
	cmd := &cobra.Command{
		Use:   "sum [files...]",
		Short: "Prints the digest of each file.",
		Long: "Prints the digest of each file in the '<hex>  <name>' layout.\n" +
			"\nArguments:\n" +
			"  [files...]   optional, '-' or nothing reads stdin.\n",
		Args: usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyHasherFlags(cmd); err != nil {
				return err
			}
			h, release, err := a.newHasher(resume)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("string") {
				fmt.Fprintln(out, hasher.FormatLine(h.HashString(str), strconv.Quote(str)))
				return nil
			}

			if len(args) == 0 {
				args = []string{stdinName}
			}
			ctx, cancel := interruptContext()
			defer cancel()

			var files []string
			for _, arg := range args {
				if arg != stdinName {
					files = append(files, arg)
				}
			}
			results := h.HashFiles(ctx, files)

			// stdin is read once; a repeated "-" prints the same digest
			var (
				stdinRead   bool
				stdinDigest hashutil.Digest
				stdinErr    error
			)
			var failed, code int
			for _, arg := range args {
				if arg == stdinName {
					if !stdinRead {
						stdinDigest, stdinErr = h.HashReader(ctx, a.stdin)
						stdinRead = true
					}
					if stdinErr != nil {
						fmt.Fprintf(cmd.OutOrStderr(), "%s: %v\n", arg, stdinErr)
						failed, code = failed+1, resultCode(stdinErr)
						continue
					}
					fmt.Fprintln(out, hasher.FormatLine(stdinDigest, arg))
					continue
				}
				res := results[0]
				results = results[1:]
				if res.Err != nil {
					fmt.Fprintf(cmd.OutOrStderr(), "%s: %v\n", arg, res.Err)
					failed, code = failed+1, resultCode(errors.Cause(res.Err))
					continue
				}
				fmt.Fprintln(out, hasher.FormatLine(res.Digest, arg))
			}

			if failed > 0 {
				logging.VPrint(logging.WARN, "some files were not hashed", logging.LogFormat{"failed": failed, "total": len(args)})
				return mderrors.WithCode(code, fmt.Errorf("%d of %d files failed", failed, len(args)))
			}
			return nil
		},
	}
	addHasherFlags(cmd)
	cmd.Flags().StringVarP(&str, "string", "s", "", "hash the given string instead of files")
	cmd.Flags().BoolVarP(&resume, "resume", "r", false, "save and resume checkpoints even if disabled in config")
	return cmd
}
