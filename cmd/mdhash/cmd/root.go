// Package cmd implements the mdhash command line.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"massnet.org/mdhash/config"
	mderrors "massnet.org/mdhash/errors"
	"massnet.org/mdhash/logging"
)

const envPrefix = "MDHASH"

// app holds the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	stdin   io.Reader
}

// NewRootCmd builds the command tree. Input is read from stdin.
func NewRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{v: viper.New(), stdin: stdin}
	a.v.SetEnvPrefix(envPrefix)
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           filepath.Base(os.Args[0]),
		Short:         "Incremental SHA-256 and MD5 digests with resumable checkpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return mderrors.WithCode(mderrors.ErrCodeUsage, err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./"+config.DefaultConfigFilename+" if present)")
	flags.String("log_dir", "", "directory for log files")
	flags.String("log_level", "", "level of logs (trace, debug, info, warn, error, fatal, panic)")
	a.v.BindPFlag("log_dir", flags.Lookup("log_dir"))
	a.v.BindPFlag("log_level", flags.Lookup("log_level"))

	root.AddCommand(
		a.sumCmd(),
		a.checkCmd(),
		a.selftestCmd(),
		a.checkpointsCmd(),
		versionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCmd(os.Stdin)
	err := root.Execute()
	if err == nil {
		return mderrors.ErrCodeOK
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", root.Name(), mderrors.Message(err))
	logging.VPrint(logging.ERROR, "command failed", logging.LogFormat{"err": err})
	return exitCode(err)
}

func exitCode(err error) int {
	code := mderrors.Code(err)
	if code == mderrors.ErrCodeUnknown && strings.HasPrefix(err.Error(), "unknown command") {
		return mderrors.ErrCodeUsage
	}
	return code
}

// init loads the config file, applies flag and environment overrides and
// starts logging.
func (a *app) init() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return mderrors.WithCode(mderrors.ErrCodeConfig, err)
	}
	if s := a.v.GetString("log_dir"); s != "" {
		cfg.Log.LogDir = s
	}
	if s := a.v.GetString("log_level"); s != "" {
		cfg.Log.LogLevel = s
	}
	if s := a.v.GetString("algorithm"); s != "" {
		cfg.Hasher.Algorithm = s
	}
	if n := a.v.GetInt("workers"); n != 0 {
		cfg.Hasher.Workers = n
	}
	if err = config.CheckConfig(cfg); err != nil {
		return mderrors.WithCode(mderrors.ErrCodeConfig, err)
	}
	a.cfg = cfg

	logging.Init(cfg.Log.LogDir, config.DefaultLoggingFilename, cfg.Log.LogLevel, 1, cfg.Log.DisableCPrint)
	logging.VPrint(logging.INFO, "using config", logging.LogFormat{
		"file":      a.cfgFile,
		"algorithm": cfg.Hasher.Algorithm,
		"workers":   cfg.Hasher.Workers,
	})
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfgFile != "" {
		return config.LoadConfig(a.cfgFile)
	}
	if _, err := os.Stat(config.DefaultConfigFilename); err == nil {
		a.cfgFile = config.DefaultConfigFilename
		return config.LoadConfig(a.cfgFile)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "stat default config")
	}
	return config.DefaultConfig(), nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return mderrors.WithCode(mderrors.ErrCodeUsage, fn(cmd, args))
	}
}
