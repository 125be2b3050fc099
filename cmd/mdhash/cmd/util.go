package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"massnet.org/mdhash/checkpoint"
	_ "massnet.org/mdhash/database/storage/ldbstorage"
	mderrors "massnet.org/mdhash/errors"
	"massnet.org/mdhash/hasher"
	"massnet.org/mdhash/logging"
)

// interruptContext is canceled on SIGINT or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	interruptCh := make(chan os.Signal, 2)
	signal.Notify(interruptCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(interruptCh)
		select {
		case sig := <-interruptCh:
			logging.CPrint(logging.INFO, "received signal, saving checkpoints", logging.LogFormat{"signal": sig})
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func addHasherFlags(cmd *cobra.Command) {
	cmd.Flags().String("algo", "", "hash algorithm (md5, sha256)")
	cmd.Flags().Int("workers", 0, "number of files hashed in parallel (default one per CPU)")
}

// applyHasherFlags copies explicitly set hasher flags into the config.
func (a *app) applyHasherFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("algo") {
		algo, _ := flags.GetString("algo")
		if _, err := hasher.LookupAlgorithm(algo); err != nil {
			return mderrors.WithCode(mderrors.ErrCodeUsage, err)
		}
		a.cfg.Hasher.Algorithm = algo
	}
	if flags.Changed("workers") {
		n, _ := flags.GetInt("workers")
		if n < 0 {
			return mderrors.WithCode(mderrors.ErrCodeUsage, errInvalidWorkers)
		}
		a.cfg.Hasher.Workers = n
	}
	return nil
}

func (a *app) openStore() (*checkpoint.Store, error) {
	c := a.cfg.Checkpoint
	store, err := checkpoint.Open(c.DBType, c.Dir, c.CacheSize)
	if err != nil {
		return nil, mderrors.WithCode(mderrors.ErrCodeIO, err)
	}
	return store, nil
}

// newHasher returns a hasher and a function releasing it. Checkpoints are
// used when enabled in the config or forced by resume.
func (a *app) newHasher(resume bool) (*hasher.Hasher, func(), error) {
	var store *checkpoint.Store
	if resume || a.cfg.Checkpoint.Enabled {
		var err error
		if store, err = a.openStore(); err != nil {
			return nil, nil, err
		}
	}
	h, err := hasher.New(a.cfg.Hasher, store)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, mderrors.WithCode(mderrors.ErrCodeConfig, err)
	}
	release := func() {
		h.Close()
		if store != nil {
			if err := store.Close(); err != nil {
				logging.VPrint(logging.WARN, "close checkpoint store failed", logging.LogFormat{"err": err})
			}
		}
	}
	return h, release, nil
}

// resultCode picks the exit code for a failed file.
func resultCode(err error) int {
	if err == context.Canceled {
		return mderrors.ErrCodeCanceled
	}
	return mderrors.ErrCodeIO
}
