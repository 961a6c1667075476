package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdfence/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mdfence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	v, err := config.New(writeFile(t, "{}\n"))
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_File(t *testing.T) {
	v, err := config.New(writeFile(t, `
fence:
  marker: "~~~"
lens:
  actions: [copy, "c*"]
run:
  enabled: false
  clear_terminal: true
  confirm_orgs: [live]
padding:
  clone_after: 1
log:
  level: ""
`))
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "~~~", cfg.Fence.Marker)
	assert.Equal(t, []string{"copy", "c*"}, cfg.Lens.Actions)
	assert.False(t, cfg.Run.Enabled)
	assert.True(t, cfg.Run.ClearTerminal)
	assert.Equal(t, []string{"live"}, cfg.Run.ConfirmOrgs)
	assert.Equal(t, 1, cfg.Padding.CloneAfter)
	assert.Equal(t, 2, cfg.Padding.CloneBefore)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MDFENCE_FENCE_MARKER", "````")
	t.Setenv("MDFENCE_RUN_CLEAR_TERMINAL", "true")

	v, err := config.New(writeFile(t, "{}\n"))
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "````", cfg.Fence.Marker)
	assert.True(t, cfg.Run.ClearTerminal)
}

func TestLoad_Invalid(t *testing.T) {
	for _, content := range []string{
		"fence:\n  marker: \"` `\"\n",
		"lens:\n  actions: [fold]\n",
		"lens:\n  actions: [run-nearest]\n",
		"padding:\n  column: -1\n",
	} {
		v, err := config.New(writeFile(t, content))
		require.NoError(t, err)

		_, err = config.Load(v)
		require.ErrorIs(t, err, config.ErrInvalid, content)
	}
}

func TestNew_MissingFile(t *testing.T) {
	_, err := config.New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.FileName)
	require.NoError(t, config.WriteDefault(path))
	require.ErrorIs(t, config.WriteDefault(path), config.ErrExists)

	v, err := config.New(path)
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetLevel(logrus.InfoLevel)

	var out bytes.Buffer

	require.NoError(t, config.ConfigureLogging(config.LogConfig{Level: "debug", Type: "text"}, &out))
	logrus.WithField("action", "copy").Debug("execute")
	assert.Equal(t, "🐝 execute action=copy\n", out.String())

	require.Error(t, config.ConfigureLogging(config.LogConfig{Level: "loud", Type: "text"}, &out))
	require.ErrorIs(t, config.ConfigureLogging(config.LogConfig{Level: "info", Type: "xml"}, &out), config.ErrInvalid)
}
