// Package editor implements an in-memory text editor that serves as the
// editing host for command line use and tests.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/host"
)

// DefaultIndent is the unit added by IndentLines.
const DefaultIndent = "    "

// Buffer is a line-based document with one or more selections. The first
// selection is the primary one; editing commands act on it.
type Buffer struct {
	lines      []string
	selections []fence.Selection
	history    [][]fence.Selection
	clipboard  host.Clipboard
	indent     string
	log        *logrus.Entry
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithClipboard sets the clipboard used by cut and paste.
func WithClipboard(c host.Clipboard) Option {
	return func(b *Buffer) { b.clipboard = c }
}

// WithIndent sets the indentation unit.
func WithIndent(unit string) Option {
	return func(b *Buffer) { b.indent = unit }
}

// WithLogger sets the log entry commands are traced to.
func WithLogger(entry *logrus.Entry) Option {
	return func(b *Buffer) { b.log = entry }
}

// New returns a Buffer holding text with a caret at the start.
func New(text string, opts ...Option) *Buffer {
	b := &Buffer{
		lines:      strings.Split(text, "\n"),
		selections: []fence.Selection{fence.Caret(fence.Pos(0, 0))},
		indent:     DefaultIndent,
		log:        logrus.WithField("component", "editor"),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Text implements host.Editor.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// Selection implements host.Editor.
func (b *Buffer) Selection() (fence.Selection, bool) {
	return b.selections[0], true
}

// Selections returns all selections, primary first.
func (b *Buffer) Selections() []fence.Selection {
	return append([]fence.Selection(nil), b.selections...)
}

// SetSelection implements host.Editor. Positions outside the document are
// clamped to it.
func (b *Buffer) SetSelection(sel fence.Selection) {
	b.history = append(b.history, b.selections)
	b.selections = []fence.Selection{{Anchor: b.clamp(sel.Anchor), Active: b.clamp(sel.Active)}}
}

// SelectedText implements host.Editor.
func (b *Buffer) SelectedText() string {
	sel := b.selections[0]

	return b.textRange(sel.Start(), sel.End())
}

// Execute implements host.Editor.
func (b *Buffer) Execute(_ context.Context, cmd host.Command) error {
	b.log.WithField("command", cmd).Debug("execute")

	switch cmd {
	case host.InsertLineAfter:
		b.insertLine(1)
	case host.InsertLineBefore:
		b.insertLine(0)
	case host.DeleteRight:
		b.deleteRight()
	case host.PasteAndIndent:
		return b.pasteAndIndent()
	case host.IndentLines:
		b.shift(b.indentLine(false))
	case host.IndentLinesWithEmpty:
		b.shift(b.indentLine(true))
	case host.OutdentLines:
		b.shift(b.outdentLine)
	case host.CursorLineEnd:
		b.cursorLineEnd()
	case host.CancelSelection:
		b.selections = []fence.Selection{fence.Caret(b.selections[0].Active)}
	case host.CopyLinesDown:
		b.copyLinesDown()
	case host.ClipboardCut:
		return b.cut()
	case host.InsertCursorAtLineEnds:
		b.cursorsAtLineEnds()
	case host.CursorUndo:
		b.cursorUndo()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd)
	}

	return nil
}

func (b *Buffer) caret(p fence.Position) {
	b.selections = []fence.Selection{fence.Caret(p)}
}

func (b *Buffer) insertLine(offset int) {
	line := b.selections[0].Active.Line
	indent := leadingSpace(b.lines[line])

	b.insertLines(line+offset, indent)
	b.caret(fence.Pos(line+offset, runeLen(indent)))
}

func (b *Buffer) deleteRight() {
	sel := b.selections[0]
	start, end := sel.Start(), sel.End()

	if sel.IsEmpty() {
		end = fence.Pos(start.Line, start.Character+1)
		if start.Character >= runeLen(b.lines[start.Line]) {
			if start.Line == len(b.lines)-1 {
				return
			}

			end = fence.Pos(start.Line+1, 0)
		}
	}

	b.deleteRange(start, end)
	b.caret(start)
}

func (b *Buffer) pasteAndIndent() error {
	if b.clipboard == nil {
		return ErrNoClipboard
	}

	text, err := b.clipboard.ReadText()
	if err != nil {
		return err
	}

	sel := b.selections[0]
	start := sel.Start()
	b.deleteRange(start, sel.End())

	ln := b.lines[start.Line]
	target := ln[:byteIndex(ln, start.Character)]

	if !isBlank(target) {
		target = leadingSpace(ln)
	}

	b.caret(b.insertText(start, reindent(text, target)))

	return nil
}

// reindent strips the common indentation of text and prefixes every line
// after the first with target.
func reindent(text, target string) string {
	lines := strings.Split(text, "\n")

	common := ""
	first := true

	for _, ln := range lines {
		if isBlank(ln) {
			continue
		}

		lead := leadingSpace(ln)
		if first || len(lead) < len(common) {
			common = lead
			first = false
		}
	}

	for i, ln := range lines {
		ln = strings.TrimPrefix(ln, common)
		if i > 0 && !isBlank(ln) {
			ln = target + ln
		}

		lines[i] = ln
	}

	return strings.Join(lines, "\n")
}

func (b *Buffer) indentLine(withEmpty bool) func(string) string {
	return func(ln string) string {
		if !withEmpty && isBlank(ln) {
			return ln
		}

		return b.indent + ln
	}
}

func (b *Buffer) outdentLine(ln string) string {
	if strings.HasPrefix(ln, "\t") {
		return ln[1:]
	}

	n := 0
	for n < len(b.indent) && n < len(ln) && ln[n] == ' ' {
		n++
	}

	return ln[n:]
}

// shift rewrites every line of the primary selection and moves the
// selection ends with the text.
func (b *Buffer) shift(rewrite func(string) string) {
	sel := b.selections[0]
	first, last := span(sel)

	delta := make(map[int]int, last-first+1)

	for i := first; i <= last; i++ {
		before := runeLen(b.lines[i])
		b.lines[i] = rewrite(b.lines[i])
		delta[i] = runeLen(b.lines[i]) - before
	}

	move := func(p fence.Position) fence.Position {
		if d, ok := delta[p.Line]; ok && p.Character > 0 {
			p.Character += d
		}

		return b.clamp(p)
	}

	b.selections = []fence.Selection{{Anchor: move(sel.Anchor), Active: move(sel.Active)}}
}

func (b *Buffer) cursorLineEnd() {
	selections := make([]fence.Selection, len(b.selections))

	for i, sel := range b.selections {
		line := sel.Active.Line
		selections[i] = fence.Caret(fence.Pos(line, runeLen(b.lines[line])))
	}

	b.selections = selections
}

func (b *Buffer) copyLinesDown() {
	sel := b.selections[0]
	first, last := span(sel)
	count := last - first + 1

	b.insertLines(last+1, append([]string{}, b.lines[first:last+1]...)...)

	down := func(p fence.Position) fence.Position {
		return fence.Pos(p.Line+count, p.Character)
	}

	b.selections = []fence.Selection{{Anchor: down(sel.Anchor), Active: down(sel.Active)}}
}

func (b *Buffer) cut() error {
	if b.clipboard == nil {
		return ErrNoClipboard
	}

	sel := b.selections[0]
	start, end := sel.Start(), sel.End()

	if sel.IsEmpty() {
		line := start.Line
		if err := b.clipboard.WriteText(b.lines[line] + "\n"); err != nil {
			return err
		}

		if len(b.lines) == 1 {
			b.lines[0] = ""
		} else {
			b.lines = append(b.lines[:line], b.lines[line+1:]...)
		}

		b.caret(b.clamp(fence.Pos(line, 0)))

		return nil
	}

	if err := b.clipboard.WriteText(b.textRange(start, end)); err != nil {
		return err
	}

	b.deleteRange(start, end)
	b.caret(start)

	return nil
}

func (b *Buffer) cursorsAtLineEnds() {
	first, last := span(b.selections[0])
	selections := make([]fence.Selection, 0, last-first+1)

	for i := first; i <= last; i++ {
		selections = append(selections, fence.Caret(fence.Pos(i, runeLen(b.lines[i]))))
	}

	b.selections = selections
}

func (b *Buffer) cursorUndo() {
	n := len(b.history)
	if n == 0 {
		return
	}

	b.selections = b.history[n-1]
	b.history = b.history[:n-1]

	for i, sel := range b.selections {
		b.selections[i] = fence.Selection{Anchor: b.clamp(sel.Anchor), Active: b.clamp(sel.Active)}
	}
}

var (
	// ErrUnsupportedCommand is returned by [Buffer.Execute] for commands it
	// does not implement.
	ErrUnsupportedCommand = errors.New("unsupported editor command")
	// ErrNoClipboard is returned by clipboard commands when the buffer has
	// no clipboard.
	ErrNoClipboard = errors.New("no clipboard configured")
)
