package cmd

import (
	_ "embed"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdfence/internal/config"
)

//go:embed help/config.md
var configHelp string

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "config",
		Short: "Manage the mdfence configuration",
		Long:  configHelp,

		DisableAutoGenTag: true,
	}

	cmd.AddCommand(configInitCmd(opts))

	return cmd
}

func configInitCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) > 0 {
				path = args[0]
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}

			opts.status("wrote %s\n", path)

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}
