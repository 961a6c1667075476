package action_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdfence/internal/action"
	"github.com/ezerfernandes/mdfence/internal/fence"
	"github.com/ezerfernandes/mdfence/internal/host"
	"github.com/ezerfernandes/mdfence/internal/host/hosttest"
)

func newDispatcher(t *testing.T, opts action.Options) *action.Dispatcher {
	t.Helper()

	if opts.Padding == (action.Padding{}) {
		opts.Padding = action.DefaultPadding()
	}

	d, err := action.NewDispatcher(opts)
	require.NoError(t, err)

	return d
}

var wide = fence.BlockRange{StartLine: 5, EndLine: 8, EndColumn: 3}

func TestDispatch_Steps(t *testing.T) {
	tests := []struct {
		name   string
		action action.Action
		want   []string
	}{
		{
			name:   "copy",
			action: action.Copy{Content: "a\nbb"},
			want:   []string{`clipboard "a\nbb"`, "info Copy is successful."},
		},
		{
			name:   "count",
			action: action.Count{Range: fence.BlockRange{StartLine: 4, EndLine: 10}},
			want:   []string{"info ❻"},
		},
		{
			name:   "paste into empty block",
			action: action.Paste{Range: fence.BlockRange{StartLine: 5, EndLine: 5}},
			want:   []string{"select 5:0-5:0", "exec editor.insertLineBefore", "exec editor.pasteAndIndent"},
		},
		{
			name:   "paste three line block",
			action: action.Paste{Range: fence.BlockRange{StartLine: 5, EndLine: 6, EndColumn: 2}},
			want:   []string{"select 6:2-5:0", "exec editor.pasteAndIndent"},
		},
		{
			name:   "paste replace",
			action: action.Paste{Range: wide},
			want:   []string{"select 8:3-5:0", "exec editor.pasteAndIndent"},
		},
		{
			name:   "select",
			action: action.Select{Range: wide},
			want:   []string{"select 8:3-5:0"},
		},
		{
			name:   "delete",
			action: action.Delete{Range: wide},
			want:   []string{"select 8:3-5:0", "exec editor.deleteRight"},
		},
		{
			name:   "indent",
			action: action.Indent{Range: wide},
			want:   []string{"select 8:0-5:0", "exec editor.indentLines", "exec editor.cursorLineEnd"},
		},
		{
			name:   "outdent",
			action: action.Outdent{Range: wide},
			want:   []string{"select 8:0-5:0", "exec editor.outdentLines", "exec editor.cursorLineEnd"},
		},
		{
			name:   "nest",
			action: action.Nest{Range: wide},
			want:   []string{"select 8:0-5:0", "exec editor.indentLinesWithEmpty", "exec editor.cancelSelection"},
		},
		{
			name:   "cursor",
			action: action.Cursor{Range: wide},
			want:   []string{"select 8:3-5:0", "exec editor.insertCursorAtLineEnds"},
		},
		{
			name:   "clone",
			action: action.Clone{Range: wide, CloseLine: 10},
			want:   []string{"select 10:3-3:0", "exec editor.copyLinesDown", "exec editor.cancelSelection"},
		},
		{
			name:   "clone short block stops at closing fence",
			action: action.Clone{Range: fence.BlockRange{StartLine: 5, EndLine: 5}, CloseLine: 5},
			want:   []string{"select 5:3-3:0", "exec editor.copyLinesDown", "exec editor.cancelSelection"},
		},
		{
			name:   "cut",
			action: action.Cut{Range: wide, CloseLine: 10},
			want:   []string{"select 10:3-3:0", "exec editor.clipboardCut"},
		},
		{
			name:   "remove",
			action: action.Remove{Range: wide, CloseLine: 10},
			want:   []string{"select 10:3-3:0", "exec editor.deleteRight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hosttest.New("")

			err := newDispatcher(t, action.Options{}).Dispatch(context.Background(), h.Context(), tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Steps)
		})
	}
}

func TestDispatch_NoActiveEditor(t *testing.T) {
	mutating := []action.Action{
		action.Paste{Range: wide},
		action.Select{Range: wide},
		action.Delete{Range: wide},
		action.Indent{Range: wide},
		action.Clone{Range: wide, CloseLine: 10},
		action.Remove{Range: wide, CloseLine: 10},
		action.Run{Range: wide},
		action.RunNearest{},
	}

	for _, a := range mutating {
		t.Run(string(a.Kind()), func(t *testing.T) {
			h := hosttest.New("```\nx\n```\n")
			h.Editor.Inactive = true

			require.NoError(t, newDispatcher(t, action.Options{}).Dispatch(context.Background(), h.Context(), a))
			assert.Empty(t, h.Steps)
		})
	}
}

func TestDispatch_Run(t *testing.T) {
	h := hosttest.New("")
	h.Editor.Selected = "echo hi"

	d := newDispatcher(t, action.Options{ClearTerminal: true})
	run := action.Run{Range: fence.BlockRange{StartLine: 5, EndLine: 6, EndColumn: 2}}

	require.NoError(t, d.Dispatch(context.Background(), h.Context(), run))
	assert.Equal(t, []string{
		"select 5:0-6:2",
		"terminal show",
		"terminal clear",
		`terminal send "echo hi"`,
		"exec editor.cursorUndo",
	}, h.Steps)
}

func TestDispatch_RunNothingSelected(t *testing.T) {
	h := hosttest.New("")

	require.NoError(t, newDispatcher(t, action.Options{}).Dispatch(context.Background(), h.Context(), action.Run{Range: wide}))
	assert.Equal(t, []string{"select 5:0-8:3", "warn Nothing to run.", "exec editor.cursorUndo"}, h.Steps)
	assert.Empty(t, h.Terminal.Sent)
}

func TestDispatch_RunConfirmation(t *testing.T) {
	d := newDispatcher(t, action.Options{ConfirmOrgs: []string{"prod*"}})
	run := action.Run{Range: wide, Tag: action.Tag{Language: "apex", Organization: "prod-eu"}}

	h := hosttest.New("")
	h.Confirmer.Answer = false

	require.NoError(t, d.Dispatch(context.Background(), h.Context(), run))
	assert.Equal(t, []string{
		"confirm You are running this on prod-eu, are you sure?",
		"info Run cancelled.",
	}, h.Steps)

	h = hosttest.New("")
	h.Editor.Selected = "System.debug(1);"

	require.NoError(t, d.Dispatch(context.Background(), h.Context(), run))
	assert.Equal(t, []string{"System.debug(1);"}, h.Terminal.Sent)

	h = hosttest.New("")
	hc := h.Context()
	hc.Confirmer = nil

	err := d.Dispatch(context.Background(), hc, run)
	require.ErrorIs(t, err, action.ErrConfirmationRequired)
	assert.Empty(t, h.Steps)

	h = hosttest.New("")
	h.Editor.Selected = "ls"
	sandbox := action.Run{Range: wide, Tag: action.Tag{Organization: "sandbox"}}

	require.NoError(t, d.Dispatch(context.Background(), h.Context(), sandbox))
	assert.NotContains(t, h.Steps, "confirm You are running this on sandbox, are you sure?")
	assert.Equal(t, []string{"ls"}, h.Terminal.Sent)
}

func TestDispatch_RunNearestMalformed(t *testing.T) {
	h := hosttest.New("```sh\nls\n```\n```\n")

	err := newDispatcher(t, action.Options{}).Dispatch(context.Background(), h.Context(), action.RunNearest{})
	require.ErrorIs(t, err, fence.ErrMalformedFence)
	assert.Equal(t, []string{"error Malformed Fences!"}, h.Steps)
}

func TestDispatch_RunNearestEmpty(t *testing.T) {
	h := hosttest.New("```\n```\n")

	err := newDispatcher(t, action.Options{}).Dispatch(context.Background(), h.Context(), action.RunNearest{})
	require.ErrorIs(t, err, fence.ErrEmptyNearestBlock)
	assert.Equal(t, []string{"warn Nearest fence is null!"}, h.Steps)
}

func TestDispatch_MissingCollaborators(t *testing.T) {
	d := newDispatcher(t, action.Options{})

	h := hosttest.New("")
	hc := h.Context()
	hc.Clipboard = nil
	hc.Terminal = nil

	require.ErrorIs(t, d.Dispatch(context.Background(), hc, action.Copy{Content: "x"}), action.ErrNoClipboard)
	require.ErrorIs(t, d.Dispatch(context.Background(), hc, action.Run{Range: wide}), action.ErrNoTerminal)
	require.ErrorIs(t, d.Dispatch(context.Background(), hc, action.RunNearest{}), action.ErrNoTerminal)
}

func TestDispatch_EditorFailureStopsSequence(t *testing.T) {
	boom := errors.New("boom")

	h := hosttest.New("")
	h.Editor.Fail = map[host.Command]error{host.IndentLines: boom}

	err := newDispatcher(t, action.Options{}).Dispatch(context.Background(), h.Context(), action.Indent{Range: wide})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"select 8:0-5:0", "exec editor.indentLines"}, h.Steps)
}

func TestNewDispatcher_BadPattern(t *testing.T) {
	_, err := action.NewDispatcher(action.Options{ConfirmOrgs: []string{"prod["}})
	require.Error(t, err)
}

func TestNewDispatcher_ColumnFollowsMarker(t *testing.T) {
	d := newDispatcher(t, action.Options{Marker: "~~~~"})
	h := hosttest.New("")

	require.NoError(t, d.Dispatch(context.Background(), h.Context(), action.Cut{Range: wide, CloseLine: 10}))
	assert.Equal(t, "select 10:4-3:0", h.Steps[0])
}
