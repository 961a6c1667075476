// Package host declares the editing environment the actions drive: the
// active editor, the clipboard, a terminal, a notification surface and a
// confirmation prompt.
package host

import (
	"context"

	"github.com/ezerfernandes/mdfence/internal/fence"
)

// Command is a built-in editor primitive.
type Command string

// Built-in editor primitives.
const (
	InsertLineAfter        Command = "editor.insertLineAfter"
	InsertLineBefore       Command = "editor.insertLineBefore"
	DeleteRight            Command = "editor.deleteRight"
	PasteAndIndent         Command = "editor.pasteAndIndent"
	IndentLines            Command = "editor.indentLines"
	OutdentLines           Command = "editor.outdentLines"
	IndentLinesWithEmpty   Command = "editor.indentLinesWithEmpty"
	CursorLineEnd          Command = "editor.cursorLineEnd"
	CancelSelection        Command = "editor.cancelSelection"
	CopyLinesDown          Command = "editor.copyLinesDown"
	ClipboardCut           Command = "editor.clipboardCut"
	InsertCursorAtLineEnds Command = "editor.insertCursorAtLineEnds"
	CursorUndo             Command = "editor.cursorUndo"
)

// Editor is the active text editor.
type Editor interface {
	// Selection returns the primary selection. The bool is false when
	// there is no active editable context.
	Selection() (fence.Selection, bool)
	SetSelection(sel fence.Selection)
	SelectedText() string
	Text() string
	Execute(ctx context.Context, cmd Command) error
}

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Terminal receives text to execute.
type Terminal interface {
	Show() error
	Clear() error
	SendText(ctx context.Context, text string) error
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, msg string) (bool, error)
}

// Context bundles the collaborators of one action invocation. Collaborators
// an action does not use may be nil.
type Context struct {
	Editor    Editor
	Clipboard Clipboard
	Terminal  Terminal
	Notifier  Notifier
	Confirmer Confirmer
}

// Active returns the editor when it has an editable selection.
func (c *Context) Active() (Editor, bool) {
	if c == nil || c.Editor == nil {
		return nil, false
	}

	if _, ok := c.Editor.Selection(); !ok {
		return nil, false
	}

	return c.Editor, true
}

// Info notifies when a notifier is present.
func (c *Context) Info(msg string) {
	if c != nil && c.Notifier != nil {
		c.Notifier.Info(msg)
	}
}

// Warn notifies when a notifier is present.
func (c *Context) Warn(msg string) {
	if c != nil && c.Notifier != nil {
		c.Notifier.Warn(msg)
	}
}

// Error notifies when a notifier is present.
func (c *Context) Error(msg string) {
	if c != nil && c.Notifier != nil {
		c.Notifier.Error(msg)
	}
}
