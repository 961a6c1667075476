// Package action turns an action on a fenced block into the sequence of
// host primitives that performs it.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind names an action. Kinds are the values accepted in configuration.
type Kind string

// Action kinds.
const (
	KindCopy       Kind = "copy"
	KindPaste      Kind = "paste"
	KindSelect     Kind = "select"
	KindDelete     Kind = "delete"
	KindIndent     Kind = "indent"
	KindOutdent    Kind = "outdent"
	KindNest       Kind = "nest"
	KindCursor     Kind = "cursor"
	KindClone      Kind = "clone"
	KindCut        Kind = "cut"
	KindRemove     Kind = "remove"
	KindCount      Kind = "count"
	KindRun        Kind = "run"
	KindRunNearest Kind = "run-nearest"
)

// Kinds lists the block actions in their default display order.
var Kinds = []Kind{
	KindCopy, KindPaste, KindSelect, KindDelete,
	KindIndent, KindOutdent, KindNest, KindCursor,
	KindClone, KindCut, KindRemove, KindCount, KindRun,
}

var labels = map[Kind]string{
	KindCopy:       "Copy 📎",
	KindPaste:      "Paste 📋",
	KindSelect:     "Select 🔦",
	KindDelete:     "Delete 🗑️",
	KindIndent:     "Indent 🔜",
	KindOutdent:    "Outdent 🔙",
	KindNest:       "Nest 🪹",
	KindCursor:     "Cursor 🐀",
	KindClone:      "Clone 🐑",
	KindCut:        "Cut ✂️",
	KindRemove:     "Remove ❌",
	KindCount:      "Count 🧮",
	KindRun:        "Run 💲",
	KindRunNearest: "Run Nearest 💲",
}

// Label is the text shown on an anchor for k.
func (k Kind) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}

	return string(k)
}

// ParseKind validates a kind name.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := labels[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}

	return k, nil
}

var glyphs = strings.NewReplacer(
	"0", "⓿", "1", "❶", "2", "❷", "3", "❸", "4", "❹",
	"5", "❺", "6", "❻", "7", "❼", "8", "❽", "9", "❾",
)

// Glyphs renders n with one circled glyph per digit.
func Glyphs(n int) string {
	return glyphs.Replace(strconv.Itoa(n))
}

var (
	// ErrUnknownAction is returned for an action name that is not a Kind.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNoTerminal is returned by run actions when the host has no
	// terminal.
	ErrNoTerminal = errors.New("no terminal available")
	// ErrNoClipboard is returned by copy when the host has no clipboard.
	ErrNoClipboard = errors.New("no clipboard available")
	// ErrConfirmationRequired is returned when a run needs confirmation and
	// the host cannot ask for it.
	ErrConfirmationRequired = errors.New("run requires confirmation")
)
