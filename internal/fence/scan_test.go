package fence_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ezerfernandes/mdfence/internal/fence"
)

const twoBlocks = "# Title\n" +
	"\n" +
	"```go\n" +
	"package main\n" +
	"\n" +
	"func main() {}\n" +
	"```\n" +
	"\n" +
	"text\n" +
	"```sh\n" +
	"echo hi\n" +
	"```\n"

func TestScan_DocumentOrder(t *testing.T) {
	blocks := fence.All(twoBlocks, fence.DefaultMarker)
	require.Len(t, blocks, 2)

	assert.Equal(t, []string{"package main", "", "func main() {}"}, blocks[0].Inner)
	assert.Equal(t, "go", blocks[0].Info)
	assert.Equal(t, 2, blocks[0].OpenLine)
	assert.Equal(t, strings.Index(twoBlocks, "```go"), blocks[0].StartOffset)
	assert.Equal(t, "```go\npackage main\n\nfunc main() {}\n```", blocks[0].Raw)

	assert.Equal(t, []string{"echo hi"}, blocks[1].Inner)
	assert.Equal(t, "sh", blocks[1].Info)
	assert.Equal(t, 9, blocks[1].OpenLine)
	assert.Equal(t, 11, blocks[1].CloseLine())
}

func TestScan_EmptyBlock(t *testing.T) {
	blocks := fence.All("before\n```\n```\nafter\n", fence.DefaultMarker)
	require.Len(t, blocks, 1)

	assert.Empty(t, blocks[0].Inner)
	assert.Equal(t, "", blocks[0].Content())

	r := blocks[0].Range()
	assert.Equal(t, r.StartLine, r.EndLine)
	assert.Equal(t, 0, r.EndColumn)
	assert.Equal(t, 2, r.StartLine)
}

func TestScan_AdjacentBlocks(t *testing.T) {
	blocks := fence.All("```\na\n```\n```\nb\n```\n", fence.DefaultMarker)
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"a"}, blocks[0].Inner)
	assert.Equal(t, []string{"b"}, blocks[1].Inner)
}

func TestScan_Unclosed(t *testing.T) {
	assert.Empty(t, fence.All("```go\nfmt.Println()\n", fence.DefaultMarker))
	assert.Empty(t, fence.All("```go\na\n```js\nb\n", fence.DefaultMarker))

	blocks := fence.All("```\na\n```\n```\nunclosed\n", fence.DefaultMarker)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"a"}, blocks[0].Inner)
}

func TestScan_CustomMarkerAndCRLF(t *testing.T) {
	blocks := fence.All("~~~ text\r\none\r\ntwo\r\n~~~\r\n", "~~~")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"one", "two"}, blocks[0].Inner)
	assert.Equal(t, "text", blocks[0].Info)
}

func TestScan_Indented(t *testing.T) {
	blocks := fence.All("- item\n  ```sh\n  ls\n  ```\n", "")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"  ls"}, blocks[0].Inner)
	assert.Equal(t, 9, blocks[0].StartOffset)
}

func TestScan_StopEarly(t *testing.T) {
	var seen int

	for range fence.Scan(twoBlocks, fence.DefaultMarker) {
		seen++

		break
	}

	assert.Equal(t, 1, seen)
}

func TestRange(t *testing.T) {
	tests := []struct {
		name  string
		inner []string
		want  fence.BlockRange
	}{
		{name: "empty", inner: nil, want: fence.BlockRange{StartLine: 5, EndLine: 5}},
		{name: "one", inner: []string{"a"}, want: fence.BlockRange{StartLine: 5, EndLine: 5}},
		{name: "two", inner: []string{"a", "bb"}, want: fence.BlockRange{StartLine: 5, EndLine: 5}},
		{name: "three", inner: []string{"a", "bb", "ccc"}, want: fence.BlockRange{StartLine: 5, EndLine: 6, EndColumn: 2}},
		{name: "runes", inner: []string{"x", "héllo", "y"}, want: fence.BlockRange{StartLine: 5, EndLine: 6, EndColumn: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fence.BlockMatch{OpenLine: 4, Inner: tt.inner}
			assert.Equal(t, tt.want, m.Range())
		})
	}
}

func TestAt(t *testing.T) {
	block, ok := fence.At(twoBlocks, fence.DefaultMarker, 10)
	require.True(t, ok)
	assert.Equal(t, "sh", block.Info)

	_, ok = fence.At(twoBlocks, fence.DefaultMarker, 8)
	assert.False(t, ok)
}

func genLine(t *rapid.T, label string) string {
	return rapid.StringMatching(`[a-z ]{0,12}`).Draw(t, label)
}

func TestScan_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var (
			doc  []string
			want [][]string
		)

		blocks := rapid.IntRange(0, 6).Draw(t, "blocks")
		for i := 0; i < blocks; i++ {
			for j := rapid.IntRange(0, 3).Draw(t, "para"); j > 0; j-- {
				doc = append(doc, genLine(t, "text"))
			}

			var inner []string
			for j := rapid.IntRange(0, 5).Draw(t, "inner"); j > 0; j-- {
				inner = append(inner, genLine(t, "code"))
			}

			doc = append(doc, "```"+rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "lang"))
			doc = append(doc, inner...)
			doc = append(doc, "```")
			want = append(want, inner)
		}

		text := strings.Join(doc, "\n")
		got := fence.All(text, fence.DefaultMarker)

		if len(got) != len(want) {
			t.Fatalf("got %d blocks, want %d", len(got), len(want))
		}

		for i, block := range got {
			if strings.Join(block.Inner, "\n") != strings.Join(want[i], "\n") || len(block.Inner) != len(want[i]) {
				t.Fatalf("block %d: got %q, want %q", i, block.Inner, want[i])
			}

			r := block.Range()
			if len(block.Inner) <= 2 && (r.StartLine != r.EndLine || r.EndColumn != 0) {
				t.Fatalf("block %d: short block range %+v", i, r)
			}

			if i > 0 && block.StartOffset <= got[i-1].StartOffset+len(got[i-1].Raw) {
				t.Fatalf("block %d overlaps the previous one", i)
			}
		}

		again := fence.All(text, fence.DefaultMarker)
		if len(again) != len(got) {
			t.Fatalf("rescan changed block count")
		}

		for i := range got {
			if again[i].Raw != got[i].Raw || again[i].StartOffset != got[i].StartOffset {
				t.Fatalf("rescan changed block %d", i)
			}
		}
	})
}
