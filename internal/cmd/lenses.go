package cmd

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/lens"
)

//go:embed help/lenses.md
var lensesHelp string

func lensesCmd(opts *options) *cobra.Command {
	var lang []string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "lenses [flags] [filename]",
		Aliases: []string{"ls"},
		Short:   "List the actions offered on each fenced code block",
		Long:    lensesHelp,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			keep, err := filter(lang)
			if err != nil {
				return err
			}

			provider, err := opts.provider()
			if err != nil {
				return err
			}

			doc, err := opts.document(source(args))
			if err != nil {
				return err
			}

			return renderLenses(opts.stdout, provider, doc, opts.cfg.Fence.Marker, keep)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringSliceVar(&lang, "lang", nil, "only blocks whose language matches one of these glob patterns")

	return cmd
}

func renderLenses(w io.Writer, provider *lens.Provider, doc lens.Document, marker string, keep filterFunc) error {
	blocks := fence.All(doc.Text, marker)

	tbl := table.New("Block", "Line", "Action", "Lines")
	tbl.WithWriter(w)

	for _, anchor := range provider.Anchors(doc) {
		if !keep(blocks[anchor.Block].Info) {
			continue
		}

		tbl.AddRow(anchor.Block, anchor.Line+1, anchor.Label,
			fmt.Sprintf("%d-%d", anchor.Range.StartLine+1, anchor.Range.EndLine+1))
	}

	tbl.Print()

	return nil
}
