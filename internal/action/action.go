package action

import (
	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/markdown"
)

// Action is one invocable action together with the payload its primitive
// sequence needs.
type Action interface {
	Kind() Kind
}

// Copy writes Content to the clipboard.
type Copy struct{ Content string }

// Paste pastes the clipboard into the block body.
type Paste struct{ Range fence.BlockRange }

// Select selects the block body.
type Select struct{ Range fence.BlockRange }

// Delete deletes the block body.
type Delete struct{ Range fence.BlockRange }

// Indent indents the block body.
type Indent struct{ Range fence.BlockRange }

// Outdent outdents the block body.
type Outdent struct{ Range fence.BlockRange }

// Nest indents the block body including its blank lines.
type Nest struct{ Range fence.BlockRange }

// Cursor puts a cursor at the end of every body line.
type Cursor struct{ Range fence.BlockRange }

// Clone duplicates the block with its fences below itself.
type Clone struct {
	Range     fence.BlockRange
	CloseLine int
}

// Cut cuts the block with its fences and the separator line above it.
type Cut struct {
	Range     fence.BlockRange
	CloseLine int
}

// Remove deletes the block with its fences and the separator line above it.
type Remove struct {
	Range     fence.BlockRange
	CloseLine int
}

// Count reports the number of lines in the block range.
type Count struct{ Range fence.BlockRange }

// Run sends the block body to the terminal.
type Run struct {
	Range fence.BlockRange
	Tag   Tag
}

// RunNearest sends the body of the block nearest the cursor to the terminal.
type RunNearest struct{}

// Tag is the "language|organization" label of a block.
type Tag struct {
	Language     string
	Organization string
	Meta         markdown.Meta
}

func (Copy) Kind() Kind       { return KindCopy }       //nolint:revive
func (Paste) Kind() Kind      { return KindPaste }      //nolint:revive
func (Select) Kind() Kind     { return KindSelect }     //nolint:revive
func (Delete) Kind() Kind     { return KindDelete }     //nolint:revive
func (Indent) Kind() Kind     { return KindIndent }     //nolint:revive
func (Outdent) Kind() Kind    { return KindOutdent }    //nolint:revive
func (Nest) Kind() Kind       { return KindNest }       //nolint:revive
func (Cursor) Kind() Kind     { return KindCursor }     //nolint:revive
func (Clone) Kind() Kind      { return KindClone }      //nolint:revive
func (Cut) Kind() Kind        { return KindCut }        //nolint:revive
func (Remove) Kind() Kind     { return KindRemove }     //nolint:revive
func (Count) Kind() Kind      { return KindCount }      //nolint:revive
func (Run) Kind() Kind        { return KindRun }        //nolint:revive
func (RunNearest) Kind() Kind { return KindRunNearest } //nolint:revive

// ParseTag reads the tag from a fence info string.
func ParseTag(info string) (Tag, error) {
	parsed, err := markdown.ParseInfo(info)
	if err != nil {
		return Tag{}, err
	}

	return Tag{Language: parsed.Lang, Organization: parsed.Org, Meta: parsed.Meta}, nil
}

// ForBlock builds the action of kind k for block.
func ForBlock(k Kind, block fence.BlockMatch) (Action, error) { //nolint:ireturn,cyclop
	r := block.Range()

	switch k {
	case KindCopy:
		return Copy{Content: block.Content()}, nil
	case KindPaste:
		return Paste{Range: r}, nil
	case KindSelect:
		return Select{Range: r}, nil
	case KindDelete:
		return Delete{Range: r}, nil
	case KindIndent:
		return Indent{Range: r}, nil
	case KindOutdent:
		return Outdent{Range: r}, nil
	case KindNest:
		return Nest{Range: r}, nil
	case KindCursor:
		return Cursor{Range: r}, nil
	case KindClone:
		return Clone{Range: r, CloseLine: block.CloseLine()}, nil
	case KindCut:
		return Cut{Range: r, CloseLine: block.CloseLine()}, nil
	case KindRemove:
		return Remove{Range: r, CloseLine: block.CloseLine()}, nil
	case KindCount:
		return Count{Range: r}, nil
	case KindRun:
		tag, err := ParseTag(block.Info)
		if err != nil {
			return nil, err
		}

		return Run{Range: r, Tag: tag}, nil
	case KindRunNearest:
		return RunNearest{}, nil
	}

	return nil, ErrUnknownAction
}
