package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ezerfernandes/mdfence/internal/fence"
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// byteIndex converts a rune column into a byte index of s.
func byteIndex(s string, col int) int {
	if col <= 0 {
		return 0
	}

	n := 0

	for i := range s {
		if n == col {
			return i
		}

		n++
	}

	return len(s)
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeftFunc(s, unicode.IsSpace))]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (b *Buffer) clamp(p fence.Position) fence.Position {
	if p.Line < 0 {
		return fence.Pos(0, 0)
	}

	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1

		return fence.Pos(last, runeLen(b.lines[last]))
	}

	if p.Character < 0 {
		p.Character = 0
	}

	if n := runeLen(b.lines[p.Line]); p.Character > n {
		p.Character = n
	}

	return p
}

func (b *Buffer) textRange(start, end fence.Position) string {
	if start.Line == end.Line {
		ln := b.lines[start.Line]

		return ln[byteIndex(ln, start.Character):byteIndex(ln, end.Character)]
	}

	var sb strings.Builder

	first := b.lines[start.Line]
	sb.WriteString(first[byteIndex(first, start.Character):])

	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[i])
	}

	last := b.lines[end.Line]
	sb.WriteByte('\n')
	sb.WriteString(last[:byteIndex(last, end.Character)])

	return sb.String()
}

func (b *Buffer) deleteRange(start, end fence.Position) {
	first := b.lines[start.Line]
	last := b.lines[end.Line]
	joined := first[:byteIndex(first, start.Character)] + last[byteIndex(last, end.Character):]

	b.lines = append(b.lines[:start.Line+1], b.lines[end.Line+1:]...)
	b.lines[start.Line] = joined
}

// insertText inserts text at p and returns the position after it.
func (b *Buffer) insertText(p fence.Position, text string) fence.Position {
	ln := b.lines[p.Line]
	idx := byteIndex(ln, p.Character)
	head, tail := ln[:idx], ln[idx:]

	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		b.lines[p.Line] = head + text + tail

		return fence.Pos(p.Line, p.Character+runeLen(text))
	}

	inserted := make([]string, len(parts))
	inserted[0] = head + parts[0]
	copy(inserted[1:], parts[1:])

	lastIdx := len(parts) - 1
	end := fence.Pos(p.Line+lastIdx, runeLen(parts[lastIdx]))
	inserted[lastIdx] += tail

	b.insertLines(p.Line+1, inserted[1:]...)
	b.lines[p.Line] = inserted[0]

	return end
}

func (b *Buffer) insertLines(at int, lines ...string) {
	rest := append([]string{}, b.lines[at:]...)
	b.lines = append(append(b.lines[:at], lines...), rest...)
}

// span returns the lines a line-wise command acts on. A multi-line
// selection ending at column 0 does not include its last line.
func span(sel fence.Selection) (int, int) {
	start, end := sel.Start(), sel.End()
	if end.Line > start.Line && end.Character == 0 {
		return start.Line, end.Line - 1
	}

	return start.Line, end.Line
}
