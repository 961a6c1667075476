package fence

import "errors"

// Nearest locates the block closest to cursorLine by pairing fence lines in
// order, and returns a selection over its body lines. It fails with
// [ErrMalformedFence] when the fence lines cannot be paired and with
// [ErrEmptyNearestBlock] when the block has no body.
func Nearest(text, marker string, cursorLine int) (Selection, error) {
	marker = normalize(marker)

	fences := fenceLines(text, marker)

	if len(fences)%2 != 0 {
		return Selection{}, ErrMalformedFence
	}

	if len(fences) == 0 {
		return Selection{}, ErrEmptyNearestBlock
	}

	idx := 0

	for i, n := range fences {
		if distance(n, cursorLine) < distance(fences[idx], cursorLine) {
			idx = i
		}
	}

	opening, closing := fences[idx], 0
	if idx%2 == 0 {
		closing = fences[idx+1]
	} else {
		opening, closing = fences[idx-1], fences[idx]
	}

	if opening+1 == closing {
		return Selection{}, ErrEmptyNearestBlock
	}

	return Select(opening+1, 0, closing, 0), nil
}

// fenceLines returns the lines [Scan] treats as fences: an opening line
// while no block is open, then a bare marker line closing it. A trailing
// opening line without its partner is included.
func fenceLines(text, marker string) []int {
	var (
		fences []int
		open   bool
	)

	for n, ln := range lines(text) {
		if (!open && opens(ln.text, marker)) || (open && closes(ln.text, marker)) {
			fences = append(fences, n)
			open = !open
		}
	}

	return fences
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}

	return b - a
}

var (
	// ErrMalformedFence is returned by [Nearest] when the document has an
	// odd number of fence lines.
	ErrMalformedFence = errors.New("malformed fences")
	// ErrEmptyNearestBlock is returned by [Nearest] when the nearest block
	// has no body.
	ErrEmptyNearestBlock = errors.New("nearest fence is empty")
)
