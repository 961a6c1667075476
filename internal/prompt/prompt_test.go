package prompt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdfence/internal/prompt"
)

func TestFixed(t *testing.T) {
	ok, err := prompt.Fixed(true).Confirm(context.Background(), "run?")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = prompt.Fixed(false).Confirm(context.Background(), "run?")
	require.NoError(t, err)
	require.False(t, ok)
}
