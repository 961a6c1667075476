package fence

// Position is a zero-based line and character offset in a document.
// Characters are counted in runes.
type Position struct {
	Line      int
	Character int
}

// Pos is shorthand for a Position literal.
func Pos(line, character int) Position {
	return Position{Line: line, Character: character}
}

// Before reports whether p sorts strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}

	return p.Character < other.Character
}

// Selection is a directed range. Anchor is where the selection started and
// Active is where the cursor is.
type Selection struct {
	Anchor Position
	Active Position
}

// Select builds a selection from anchor (line, character) to active
// (line, character).
func Select(anchorLine, anchorChar, activeLine, activeChar int) Selection {
	return Selection{Anchor: Pos(anchorLine, anchorChar), Active: Pos(activeLine, activeChar)}
}

// Caret is an empty selection at p.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	if s.Active.Before(s.Anchor) {
		return s.Active
	}

	return s.Anchor
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	if s.Active.Before(s.Anchor) {
		return s.Anchor
	}

	return s.Active
}
