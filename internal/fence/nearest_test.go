package fence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdfence/internal/fence"
)

func TestNearest(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		want   fence.Selection
	}{
		{name: "above first", cursor: 0, want: fence.Select(3, 0, 6, 0)},
		{name: "inside first", cursor: 4, want: fence.Select(3, 0, 6, 0)},
		{name: "closing fence", cursor: 6, want: fence.Select(3, 0, 6, 0)},
		{name: "inside second", cursor: 10, want: fence.Select(10, 0, 11, 0)},
		{name: "past end", cursor: 40, want: fence.Select(10, 0, 11, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fence.Nearest(twoBlocks, fence.DefaultMarker, tt.cursor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearest_TieGoesToFirst(t *testing.T) {
	text := "```\na\n```\n\n```\nb\n```\n"

	got, err := fence.Nearest(text, "", 3)
	require.NoError(t, err)
	assert.Equal(t, fence.Select(1, 0, 2, 0), got)
}

func TestNearest_Malformed(t *testing.T) {
	_, err := fence.Nearest("```sh\nls\n```\n```\n", fence.DefaultMarker, 0)
	require.ErrorIs(t, err, fence.ErrMalformedFence)
}

func TestNearest_InfoLineInsideBlock(t *testing.T) {
	text := "```md\n```js\nx\n```\n"

	require.Len(t, fence.All(text, ""), 1)

	got, err := fence.Nearest(text, "", 2)
	require.NoError(t, err)
	assert.Equal(t, fence.Select(1, 0, 3, 0), got)
}

func TestNearest_Unclosed(t *testing.T) {
	_, err := fence.Nearest("```sh\nls\n```\n\n```go\nx\n", fence.DefaultMarker, 0)
	require.ErrorIs(t, err, fence.ErrMalformedFence)
}

func TestNearest_Empty(t *testing.T) {
	_, err := fence.Nearest("text\n```\n```\n", fence.DefaultMarker, 0)
	require.ErrorIs(t, err, fence.ErrEmptyNearestBlock)

	_, err = fence.Nearest("no fences here\n", fence.DefaultMarker, 0)
	require.ErrorIs(t, err, fence.ErrEmptyNearestBlock)
}

func TestSelection(t *testing.T) {
	s := fence.Select(6, 2, 3, 0)
	assert.Equal(t, fence.Pos(3, 0), s.Start())
	assert.Equal(t, fence.Pos(6, 2), s.End())
	assert.False(t, s.IsEmpty())
	assert.True(t, fence.Caret(fence.Pos(1, 1)).IsEmpty())
}
