// Package hosttest provides recording fakes of the host collaborators.
package hosttest

import (
	"context"
	"fmt"

	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/host"
)

// Recorder logs every host call, in order, as a readable step.
type Recorder struct {
	Steps []string
}

func (r *Recorder) record(format string, args ...interface{}) {
	r.Steps = append(r.Steps, fmt.Sprintf(format, args...))
}

// Editor is a host.Editor that only records what it is asked to do.
type Editor struct {
	*Recorder
	Inactive bool
	Current  fence.Selection
	Content  string
	Selected string
	Fail     map[host.Command]error
}

// Selection implements host.Editor.
func (e *Editor) Selection() (fence.Selection, bool) {
	return e.Current, !e.Inactive
}

// SetSelection implements host.Editor.
func (e *Editor) SetSelection(sel fence.Selection) {
	e.Current = sel
	e.record("select %d:%d-%d:%d", sel.Anchor.Line, sel.Anchor.Character, sel.Active.Line, sel.Active.Character)
}

// SelectedText implements host.Editor.
func (e *Editor) SelectedText() string {
	return e.Selected
}

// Text implements host.Editor.
func (e *Editor) Text() string {
	return e.Content
}

// Execute implements host.Editor.
func (e *Editor) Execute(_ context.Context, cmd host.Command) error {
	e.record("exec %s", cmd)

	return e.Fail[cmd]
}

// Clipboard is an in-memory host.Clipboard.
type Clipboard struct {
	*Recorder
	Value string
}

// ReadText implements host.Clipboard.
func (c *Clipboard) ReadText() (string, error) {
	return c.Value, nil
}

// WriteText implements host.Clipboard.
func (c *Clipboard) WriteText(text string) error {
	c.Value = text
	c.record("clipboard %q", text)

	return nil
}

// Terminal records what it is sent.
type Terminal struct {
	*Recorder
	Sent []string
}

// Show implements host.Terminal.
func (t *Terminal) Show() error {
	t.record("terminal show")

	return nil
}

// Clear implements host.Terminal.
func (t *Terminal) Clear() error {
	t.record("terminal clear")

	return nil
}

// SendText implements host.Terminal.
func (t *Terminal) SendText(_ context.Context, text string) error {
	t.Sent = append(t.Sent, text)
	t.record("terminal send %q", text)

	return nil
}

// Notifier records notifications.
type Notifier struct {
	*Recorder
}

// Info implements host.Notifier.
func (n *Notifier) Info(msg string) { n.record("info %s", msg) }

// Warn implements host.Notifier.
func (n *Notifier) Warn(msg string) { n.record("warn %s", msg) }

// Error implements host.Notifier.
func (n *Notifier) Error(msg string) { n.record("error %s", msg) }

// Confirmer answers every question with Answer.
type Confirmer struct {
	*Recorder
	Answer bool
}

// Confirm implements host.Confirmer.
func (c *Confirmer) Confirm(_ context.Context, msg string) (bool, error) {
	c.record("confirm %s", msg)

	return c.Answer, nil
}

// Host is a full set of fakes sharing one Recorder.
type Host struct {
	*Recorder
	Editor    *Editor
	Clipboard *Clipboard
	Terminal  *Terminal
	Notifier  *Notifier
	Confirmer *Confirmer
}

// New returns a Host whose editor holds text.
func New(text string) *Host {
	rec := &Recorder{}

	return &Host{
		Recorder:  rec,
		Editor:    &Editor{Recorder: rec, Content: text},
		Clipboard: &Clipboard{Recorder: rec},
		Terminal:  &Terminal{Recorder: rec},
		Notifier:  &Notifier{Recorder: rec},
		Confirmer: &Confirmer{Recorder: rec, Answer: true},
	}
}

// Context wires the fakes into a host.Context.
func (h *Host) Context() *host.Context {
	return &host.Context{
		Editor:    h.Editor,
		Clipboard: h.Clipboard,
		Terminal:  h.Terminal,
		Notifier:  h.Notifier,
		Confirmer: h.Confirmer,
	}
}
