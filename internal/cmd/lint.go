package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdfence/internal/action"
	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/markdown"
)

//go:embed help/lint.md
var lintHelp string

func lintCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "lint [filename]",
		Short: "Report fences the block scanner cannot pair",
		Long:  lintHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := source(args)

			text, err := opts.read(name)
			if err != nil {
				return err
			}

			problems := lint(text, opts.cfg.Fence.Marker)
			for _, p := range problems {
				fmt.Fprintf(opts.stdout, "%s:%d: %s\n", name, p.line, p.msg)
			}

			if len(problems) > 0 {
				return fmt.Errorf("%w: %d", errLint, len(problems))
			}

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

type problem struct {
	// line is one-based; 0 refers to the whole document.
	line int
	msg  string
}

func lint(text, marker string) []problem {
	var problems []problem

	if _, err := fence.Nearest(text, marker, 0); errors.Is(err, fence.ErrMalformedFence) {
		problems = append(problems, problem{line: 0, msg: "odd number of fence lines"})
	}

	scanned := make(map[int]bool)

	for _, block := range fence.All(text, marker) {
		scanned[block.OpenLine] = true

		if _, err := action.ParseTag(block.Info); err != nil {
			problems = append(problems, problem{line: block.OpenLine + 1, msg: err.Error()})
		}
	}

	fences, err := markdown.Fences([]byte(text))
	if err != nil {
		problems = append(problems, problem{line: 0, msg: err.Error()})
	}

	for _, f := range fences {
		if f.OpenLine < 0 || scanned[f.OpenLine] {
			continue
		}

		problems = append(problems, problem{
			line: f.OpenLine + 1,
			msg:  fmt.Sprintf("fenced block is not closed by a bare %s line", normalized(marker)),
		})
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].line < problems[j].line })

	return problems
}

func normalized(marker string) string {
	if marker == "" {
		return fence.DefaultMarker
	}

	return marker
}

var errLint = errors.New("problems found")
