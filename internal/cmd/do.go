package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdfence/internal/action"
	"github.com/ezerfernandes/mdfence/internal/clipboard"
	"github.com/ezerfernandes/mdfence/internal/editor"
	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/host"
	"github.com/ezerfernandes/mdfence/internal/lens"
	"github.com/ezerfernandes/mdfence/internal/prompt"
	"github.com/ezerfernandes/mdfence/internal/terminal"
)

//go:embed help/do.md
var doHelp string

//go:embed help/run-near.md
var runNearHelp string

type target struct {
	block int
	// line is one-based; 0 means unset.
	line  int
	write bool
	yes   bool
}

func doCmd(opts *options) *cobra.Command {
	var tgt target

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "do [flags] <action> [filename]",
		Short: "Perform an action on a fenced code block",
		Long:  doHelp,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := action.ParseKind(args[0])
			if err != nil {
				return err
			}

			return perform(cmd.Context(), opts, source(args[1:]), kind, tgt)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().IntVarP(&tgt.block, "block", "b", 0, "zero-based index of the block")
	cmd.Flags().IntVarP(&tgt.line, "line", "n", 0, "pick the block enclosing this one-based line instead of --block")
	targetFlags(cmd, &tgt)

	return cmd
}

func runNearCmd(opts *options) *cobra.Command {
	var tgt target

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "run-near [flags] [filename]",
		Short: "Run the block nearest to a line",
		Long:  runNearHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return perform(cmd.Context(), opts, source(args), action.KindRunNearest, tgt)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().IntVarP(&tgt.line, "line", "n", 1, "one-based cursor line")
	targetFlags(cmd, &tgt)

	return cmd
}

func targetFlags(cmd *cobra.Command, tgt *target) {
	cmd.Flags().BoolVarP(&tgt.write, "write", "w", false, "write the modified document back to the file")
	cmd.Flags().BoolVarP(&tgt.yes, "yes", "y", false, "answer yes to run confirmations")
}

// invocation is the host one action runs against.
type invocation struct {
	buf   *editor.Buffer
	shell *terminal.Shell
	ctx   *host.Context
}

func (opts *options) newInvocation(text string, yes bool) (*invocation, error) {
	clip := opts.clip
	if clip == nil {
		clip = clipboard.Detect()
	}

	var confirm host.Confirmer = prompt.Survey{}

	switch {
	case yes:
		confirm = prompt.Fixed(true)
	case opts.confirm != nil:
		confirm = opts.confirm
	}

	shell, err := terminal.New("mdfence", opts.cfg.Run.Dir, opts.stdin, opts.stdout, opts.stderr)
	if err != nil {
		return nil, err
	}

	buf := editor.New(text, editor.WithClipboard(clip), editor.WithLogger(opts.logger("editor")))

	return &invocation{
		buf:   buf,
		shell: shell,
		ctx: &host.Context{
			Editor:    buf,
			Clipboard: clip,
			Terminal:  shell,
			Notifier:  notifier{out: opts.stderr, color: opts.color},
			Confirmer: confirm,
		},
	}, nil
}

func perform(ctx context.Context, opts *options, name string, kind action.Kind, tgt target) error {
	doc, err := opts.document(name)
	if err != nil {
		return err
	}

	act, err := opts.resolve(doc, kind, tgt)
	if err != nil {
		return err
	}

	inv, err := opts.newInvocation(doc.Text, tgt.yes)
	if err != nil {
		return err
	}

	if tgt.line > 0 {
		inv.buf.SetSelection(fence.Caret(fence.Pos(tgt.line-1, 0)))
	}

	dispatcher, err := opts.dispatcher()
	if err != nil {
		return err
	}

	if err := dispatcher.Dispatch(ctx, inv.ctx, act); err != nil {
		return err
	}

	if status := inv.shell.ExitStatus(); status != 0 {
		return fmt.Errorf("%w: %d", errExitStatus, status)
	}

	return opts.report(name, doc.Text, kind, inv, tgt.write)
}

func (opts *options) resolve(doc lens.Document, kind action.Kind, tgt target) (action.Action, error) { //nolint:ireturn
	if kind == action.KindRunNearest {
		return action.RunNearest{}, nil
	}

	block := tgt.block

	if tgt.line > 0 {
		found, ok := fence.At(doc.Text, opts.cfg.Fence.Marker, tgt.line-1)
		if !ok {
			return nil, fmt.Errorf("%w: line %d", errNoBlock, tgt.line)
		}

		block = indexOf(doc.Text, opts.cfg.Fence.Marker, found.OpenLine)
	}

	provider, err := opts.provider()
	if err != nil {
		return nil, err
	}

	// Anchors only exist for markdown; treat stdin and unknown names alike.
	doc.LanguageID = lens.LanguageMarkdown

	anchor, ok := provider.Find(doc, block, kind)
	if !ok {
		if block < 0 || block >= len(fence.All(doc.Text, opts.cfg.Fence.Marker)) {
			return nil, fmt.Errorf("%w: block %d", errNoBlock, block)
		}

		return nil, fmt.Errorf("%w: %s", errDisabled, kind)
	}

	return anchor.Action, nil
}

func indexOf(text, marker string, openLine int) int {
	for i, block := range fence.All(text, marker) {
		if block.OpenLine == openLine {
			return i
		}
	}

	return -1
}

func (opts *options) report(name, before string, kind action.Kind, inv *invocation, write bool) error {
	after := inv.buf.Text()

	if after != before {
		if write {
			return opts.write(name, after)
		}

		_, err := fmt.Fprint(opts.stdout, after)

		return err
	}

	if kind == action.KindSelect || kind == action.KindCursor {
		for _, sel := range inv.buf.Selections() {
			start, end := sel.Start(), sel.End()
			fmt.Fprintf(opts.stdout, "%d:%d-%d:%d\n", start.Line+1, start.Character, end.Line+1, end.Character)
		}
	}

	return nil
}

var (
	errNoBlock    = errors.New("no such block")
	errDisabled   = errors.New("action disabled by configuration")
	errExitStatus = errors.New("command exited with status")
)
