// Package markdown reads fenced code blocks the way a CommonMark parser
// sees them and parses fence info strings.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence is a fenced code block as parsed by goldmark.
type Fence struct {
	Info Info
	Code []byte
	// OpenLine is the zero-based line of the opening fence, or -1 when the
	// parser gives no way to locate it (a bare fence with no body).
	OpenLine int
	// Lines is the number of body lines.
	Lines int
}

// Fences parses source and returns its fenced code blocks in document order.
func Fences(source []byte) ([]Fence, error) {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	root := parser.Parse(reader).OwnerDocument()

	var fences []Fence

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		f, ferr := extractFence(fcb, source)
		if ferr != nil {
			return ast.WalkStop, ferr
		}

		fences = append(fences, f)

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func extractFence(fcb *ast.FencedCodeBlock, source []byte) (Fence, error) {
	var (
		info Info
		err  error
	)

	if fcb.Info != nil {
		info, err = ParseInfo(string(fcb.Info.Text(source)))
		if err != nil {
			return Fence{}, err
		}
	}

	return Fence{
		Info:     info,
		Code:     extractCode(fcb, source),
		OpenLine: openLine(fcb, source),
		Lines:    fcb.Lines().Len(),
	}, nil
}

func openLine(fcb *ast.FencedCodeBlock, source []byte) int {
	if fcb.Info != nil {
		return lineAt(source, fcb.Info.Segment.Start)
	}

	lines := fcb.Lines()
	if lines.Len() > 0 {
		return lineAt(source, lines.At(0).Start) - 1
	}

	return -1
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte{'\n'})
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	return buff.Bytes()
}
