// Package cmd implements the mdfence command line, which plays the editing
// host for the fenced block actions.
package cmd

import (
	"context"
	_ "embed"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ezerfernandes/mdfence/internal/config"
)

//go:embed help/root.md
var rootHelp string

// Execute runs the command line with args and exits non-zero on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	opts := newOptions(osFS{}, os.Stdin, stdout, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, args, opts)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, opts *options) error {
	root := rootCmd(opts)
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdfence",
		Short:         "Actions on fenced code blocks in markdown documents",
		Long:          rootHelp,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd.Flags())
		},

		DisableAutoGenTag: true,
	}

	root.SetIn(opts.stdin)
	root.SetOut(opts.stdout)
	root.SetErr(opts.stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "config file (default ./"+config.FileName+" or ~/.config/mdfence/config.yaml)")
	flags.StringP("marker", "m", "", "fence marker")
	flags.StringP("log-level", "l", "", "log level panic|fatal|error|warning|info|debug|trace")
	flags.String("log-type", "", "log type json|text")

	root.AddCommand(
		lensesCmd(opts),
		doCmd(opts),
		runNearCmd(opts),
		lintCmd(opts),
		watchCmd(opts),
		configCmd(opts),
	)

	return root
}

var flagKeys = map[string]string{
	"marker":    "fence.marker",
	"log-level": "log.level",
	"log-type":  "log.type",
}

func (opts *options) load(flags *pflag.FlagSet) error {
	v, err := config.New(opts.cfgFile)
	if err != nil {
		return err
	}

	if err := bindFlags(v, flags); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	opts.cfg = cfg
	opts.viper = v

	return config.ConfigureLogging(cfg.Log, opts.stderr)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}

		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}

	return nil
}

type filesystem interface {
	fs.FS
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

const fileMode = 0o644
