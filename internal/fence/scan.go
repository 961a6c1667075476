// Package fence finds fenced code blocks in markdown text and computes the
// line ranges the editing actions operate on.
package fence

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// DefaultMarker is the fence marker used when none is configured.
const DefaultMarker = "```"

// BlockMatch is one fenced block found by [Scan].
type BlockMatch struct {
	// StartOffset is the byte offset of the opening marker.
	StartOffset int
	// Raw spans the opening marker through the closing marker.
	Raw string
	// Info is the trimmed text following the opening marker.
	Info string
	// Inner holds the lines strictly between the fences.
	Inner []string
	// OpenLine is the zero-based line of the opening fence.
	OpenLine int
}

// BlockRange is the line range of a block body as seen by the actions.
type BlockRange struct {
	StartLine int
	EndLine   int
	EndColumn int
}

// Range derives the body range of the block. The end line stops one line
// short of the last body line, matching the host's fence rendering.
func (m BlockMatch) Range() BlockRange {
	n := len(m.Inner)
	start := m.OpenLine + 1

	r := BlockRange{StartLine: start, EndLine: start}
	if n > 2 { //nolint:gomnd
		r.EndLine = start + n - 2
		r.EndColumn = utf8.RuneCountInString(m.Inner[n-2])
	}

	return r
}

// Content returns the block body with the fence lines stripped.
func (m BlockMatch) Content() string {
	return strings.Join(m.Inner, "\n")
}

// CloseLine returns the zero-based line of the closing fence.
func (m BlockMatch) CloseLine() int {
	return m.OpenLine + len(m.Inner) + 1
}

type line struct {
	offset int
	text   string
}

func lines(text string) iter.Seq2[int, line] {
	return func(yield func(int, line) bool) {
		offset := 0

		for n := 0; offset <= len(text); n++ {
			end := strings.IndexByte(text[offset:], '\n')
			if end < 0 {
				end = len(text) - offset
			}

			if !yield(n, line{offset: offset, text: strings.TrimSuffix(text[offset:offset+end], "\r")}) {
				return
			}

			offset += end + 1
		}
	}
}

func opens(text, marker string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), marker)
}

func closes(text, marker string) bool {
	return strings.TrimSpace(text) == marker
}

func normalize(marker string) string {
	if len(marker) == 0 {
		return DefaultMarker
	}

	return marker
}

// Scan yields the fenced blocks of text in document order. A block opens on
// a line starting with marker and closes on the next line made only of
// marker; a block that never closes is not reported. Every call starts a
// fresh scan.
func Scan(text, marker string) iter.Seq[BlockMatch] {
	marker = normalize(marker)

	return func(yield func(BlockMatch) bool) {
		var (
			open    bool
			current BlockMatch
		)

		for n, ln := range lines(text) {
			if !open {
				if opens(ln.text, marker) {
					idx := strings.Index(ln.text, marker)
					open = true
					current = BlockMatch{
						StartOffset: ln.offset + idx,
						Info:        strings.TrimSpace(ln.text[idx+len(marker):]),
						OpenLine:    n,
					}
				}

				continue
			}

			if !closes(ln.text, marker) {
				current.Inner = append(current.Inner, ln.text)

				continue
			}

			end := ln.offset + strings.Index(ln.text, marker) + len(marker)
			current.Raw = text[current.StartOffset:end]
			open = false

			if !yield(current) {
				return
			}
		}
	}
}

// All collects [Scan] into a slice.
func All(text, marker string) []BlockMatch {
	var blocks []BlockMatch

	for block := range Scan(text, marker) {
		blocks = append(blocks, block)
	}

	return blocks
}

// At returns the block whose fences enclose line, if any.
func At(text, marker string, line int) (BlockMatch, bool) {
	for block := range Scan(text, marker) {
		if line >= block.OpenLine && line <= block.CloseLine() {
			return block, true
		}
	}

	return BlockMatch{}, false
}
