package action

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/host"
)

// Padding positions the selections that take in the fences around a block.
// The values are tuned to how the host lays out fence lines.
type Padding struct {
	CloneBefore    int `mapstructure:"clone_before" yaml:"clone_before"`
	CloneAfter     int `mapstructure:"clone_after" yaml:"clone_after"`
	SurroundBefore int `mapstructure:"surround_before" yaml:"surround_before"`
	SurroundAfter  int `mapstructure:"surround_after" yaml:"surround_after"`
	// Column is the character the padded selections end at on the closing
	// fence line. Zero means the length of the fence marker.
	Column int `mapstructure:"column" yaml:"column"`
}

// DefaultPadding returns the padding used when none is configured.
func DefaultPadding() Padding {
	return Padding{CloneBefore: 2, CloneAfter: 2, SurroundBefore: 2, SurroundAfter: 2}
}

// Options configures a Dispatcher.
type Options struct {
	Marker        string
	Padding       Padding
	ClearTerminal bool
	// ConfirmOrgs are glob patterns of organizations that need a
	// confirmation before a run.
	ConfirmOrgs []string
	Logger      *logrus.Entry
}

// Dispatcher performs actions against a host.
type Dispatcher struct {
	marker      string
	padding     Padding
	clear       bool
	confirmOrgs []glob.Glob
	log         *logrus.Entry
}

// NewDispatcher validates opts and returns a Dispatcher.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	d := &Dispatcher{
		marker:  opts.Marker,
		padding: opts.Padding,
		clear:   opts.ClearTerminal,
		log:     opts.Logger,
	}

	if len(d.marker) == 0 {
		d.marker = fence.DefaultMarker
	}

	if d.padding.Column == 0 {
		d.padding.Column = utf8.RuneCountInString(d.marker)
	}

	if d.log == nil {
		d.log = logrus.WithField("component", "dispatcher")
	}

	for _, pattern := range opts.ConfirmOrgs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("confirm org %q: %w", pattern, err)
		}

		d.confirmOrgs = append(d.confirmOrgs, g)
	}

	return d, nil
}

type session struct {
	ctx context.Context //nolint:containedctx
	ed  host.Editor
	log *logrus.Entry
}

func (s *session) selectRange(sel fence.Selection) {
	s.log.WithField("selection", sel).Debug("set selection")
	s.ed.SetSelection(sel)
}

func (s *session) exec(cmds ...host.Command) error {
	for _, cmd := range cmds {
		s.log.WithField("command", cmd).Debug("execute")

		if err := s.ed.Execute(s.ctx, cmd); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}

	return nil
}

// Dispatch performs a. The steps are issued in order, each one finishing
// before the next. Mutating actions do nothing when the host has no active
// editor.
func (d *Dispatcher) Dispatch(ctx context.Context, hc *host.Context, a Action) error { //nolint:cyclop
	log := d.log.WithField("action", a.Kind())

	switch a := a.(type) {
	case Copy:
		return d.copy(hc, a)
	case Count:
		hc.Info(Glyphs(a.Range.EndLine - a.Range.StartLine))

		return nil
	}

	ed, ok := hc.Active()
	if !ok {
		log.Debug("no active editor")

		return nil
	}

	s := &session{ctx: ctx, ed: ed, log: log}

	switch a := a.(type) {
	case Paste:
		return d.paste(s, a.Range)
	case Select:
		s.selectRange(body(a.Range))

		return nil
	case Delete:
		s.selectRange(body(a.Range))

		return s.exec(host.DeleteRight)
	case Indent:
		s.selectRange(lines(a.Range))

		return s.exec(host.IndentLines, host.CursorLineEnd)
	case Outdent:
		s.selectRange(lines(a.Range))

		return s.exec(host.OutdentLines, host.CursorLineEnd)
	case Nest:
		s.selectRange(lines(a.Range))

		return s.exec(host.IndentLinesWithEmpty, host.CancelSelection)
	case Cursor:
		s.selectRange(body(a.Range))

		return s.exec(host.InsertCursorAtLineEnds)
	case Clone:
		s.selectRange(d.padded(a.Range, a.CloseLine, d.padding.CloneBefore, d.padding.CloneAfter))

		return s.exec(host.CopyLinesDown, host.CancelSelection)
	case Cut:
		s.selectRange(d.padded(a.Range, a.CloseLine, d.padding.SurroundBefore, d.padding.SurroundAfter))

		return s.exec(host.ClipboardCut)
	case Remove:
		s.selectRange(d.padded(a.Range, a.CloseLine, d.padding.SurroundBefore, d.padding.SurroundAfter))

		return s.exec(host.DeleteRight)
	case Run:
		return d.run(s, hc, a)
	case RunNearest:
		return d.runNearest(s, hc)
	}

	return fmt.Errorf("%w: %s", ErrUnknownAction, a.Kind())
}

// body selects from the end of the range back to the start of its first
// line.
func body(r fence.BlockRange) fence.Selection {
	return fence.Select(r.EndLine, r.EndColumn, r.StartLine, 0)
}

func lines(r fence.BlockRange) fence.Selection {
	return fence.Select(r.EndLine, 0, r.StartLine, 0)
}

func (d *Dispatcher) padded(r fence.BlockRange, closeLine, before, after int) fence.Selection {
	end := r.EndLine + after
	if end > closeLine {
		end = closeLine
	}

	return fence.Select(end, d.padding.Column, r.StartLine-before, 0)
}

func (d *Dispatcher) copy(hc *host.Context, a Copy) error {
	if hc == nil || hc.Clipboard == nil {
		return ErrNoClipboard
	}

	if err := hc.Clipboard.WriteText(a.Content); err != nil {
		return err
	}

	hc.Info("Copy is successful.")

	return nil
}

func (d *Dispatcher) paste(s *session, r fence.BlockRange) error {
	switch diff := r.StartLine - r.EndLine; {
	case diff == 1:
		s.selectRange(fence.Caret(fence.Pos(r.StartLine-1, 0)))

		if err := s.exec(host.InsertLineAfter); err != nil {
			return err
		}
	case diff == 0:
		s.selectRange(fence.Caret(fence.Pos(r.StartLine, 0)))

		if err := s.exec(host.InsertLineBefore); err != nil {
			return err
		}
	default:
		s.selectRange(body(r))
	}

	return s.exec(host.PasteAndIndent)
}

func (d *Dispatcher) run(s *session, hc *host.Context, a Run) error {
	if hc.Terminal == nil {
		return ErrNoTerminal
	}

	ok, err := d.confirmRun(s.ctx, hc, a.Tag)
	if err != nil || !ok {
		return err
	}

	s.selectRange(fence.Select(a.Range.StartLine, 0, a.Range.EndLine, a.Range.EndColumn))

	return d.sendSelection(s, hc)
}

func (d *Dispatcher) confirmRun(ctx context.Context, hc *host.Context, tag Tag) (bool, error) {
	if !d.needsConfirmation(tag.Organization) {
		return true, nil
	}

	if hc.Confirmer == nil {
		return false, fmt.Errorf("%w: %s", ErrConfirmationRequired, tag.Organization)
	}

	ok, err := hc.Confirmer.Confirm(ctx, fmt.Sprintf("You are running this on %s, are you sure?", tag.Organization))
	if err != nil {
		return false, err
	}

	if !ok {
		hc.Info("Run cancelled.")
	}

	return ok, nil
}

func (d *Dispatcher) needsConfirmation(org string) bool {
	if len(org) == 0 {
		return false
	}

	for _, g := range d.confirmOrgs {
		if g.Match(org) {
			return true
		}
	}

	return false
}

func (d *Dispatcher) runNearest(s *session, hc *host.Context) error {
	if hc.Terminal == nil {
		return ErrNoTerminal
	}

	cur, _ := s.ed.Selection()

	sel, err := fence.Nearest(s.ed.Text(), d.marker, cur.Active.Line)

	switch {
	case errors.Is(err, fence.ErrMalformedFence):
		hc.Error("Malformed Fences!")

		return err
	case errors.Is(err, fence.ErrEmptyNearestBlock):
		hc.Warn("Nearest fence is null!")

		return err
	case err != nil:
		return err
	}

	s.selectRange(sel)

	return d.sendSelection(s, hc)
}

func (d *Dispatcher) sendSelection(s *session, hc *host.Context) error {
	text := s.ed.SelectedText()
	if len(text) == 0 {
		hc.Warn("Nothing to run.")

		return s.exec(host.CursorUndo)
	}

	if err := hc.Terminal.Show(); err != nil {
		return err
	}

	if d.clear {
		if err := hc.Terminal.Clear(); err != nil {
			return err
		}
	}

	s.log.WithField("bytes", len(text)).Debug("send to terminal")

	if err := hc.Terminal.SendText(s.ctx, text); err != nil {
		return err
	}

	return s.exec(host.CursorUndo)
}
