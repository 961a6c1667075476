// Package config loads mdfence settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/imdario/mergo"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ezerfernandes/mdfence/internal/action"
	"github.com/ezerfernandes/mdfence/internal/fence"
)

// EnvPrefix prefixes every environment variable read by mdfence.
const EnvPrefix = "MDFENCE"

// FileName is the project config file looked up in the working directory.
const FileName = ".mdfence.yaml"

// Config holds all mdfence settings.
type Config struct {
	Fence   FenceConfig    `mapstructure:"fence" yaml:"fence"`
	Lens    LensConfig     `mapstructure:"lens" yaml:"lens"`
	Run     RunConfig      `mapstructure:"run" yaml:"run"`
	Padding action.Padding `mapstructure:"padding" yaml:"padding"`
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
}

// FenceConfig describes how fences are recognized.
type FenceConfig struct {
	Marker string `mapstructure:"marker" yaml:"marker"`
}

// LensConfig selects the anchors offered on each block.
type LensConfig struct {
	Actions []string `mapstructure:"actions" yaml:"actions"`
}

// RunConfig controls the run actions.
type RunConfig struct {
	Enabled       bool     `mapstructure:"enabled" yaml:"enabled"`
	ClearTerminal bool     `mapstructure:"clear_terminal" yaml:"clear_terminal"`
	ConfirmOrgs   []string `mapstructure:"confirm_orgs" yaml:"confirm_orgs"`
	Dir           string   `mapstructure:"dir" yaml:"dir"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Type        string `mapstructure:"type" yaml:"type"`
	ForceColors bool   `mapstructure:"force_colors" yaml:"force_colors"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	kinds := make([]string, len(action.Kinds))
	for i, k := range action.Kinds {
		kinds[i] = string(k)
	}

	return Config{
		Fence:   FenceConfig{Marker: fence.DefaultMarker},
		Lens:    LensConfig{Actions: kinds},
		Run:     RunConfig{Enabled: true, ConfirmOrgs: []string{"prod", "prod-*", "production"}, Dir: "."},
		Padding: action.DefaultPadding(),
		Log:     LogConfig{Level: "info", Type: "text"},
	}
}

// SetDefaults registers the defaults with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("fence.marker", d.Fence.Marker)
	v.SetDefault("lens.actions", d.Lens.Actions)
	v.SetDefault("run.enabled", d.Run.Enabled)
	v.SetDefault("run.clear_terminal", d.Run.ClearTerminal)
	v.SetDefault("run.confirm_orgs", d.Run.ConfirmOrgs)
	v.SetDefault("run.dir", d.Run.Dir)
	v.SetDefault("padding.clone_before", d.Padding.CloneBefore)
	v.SetDefault("padding.clone_after", d.Padding.CloneAfter)
	v.SetDefault("padding.surround_before", d.Padding.SurroundBefore)
	v.SetDefault("padding.surround_after", d.Padding.SurroundAfter)
	v.SetDefault("padding.column", d.Padding.Column)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.type", d.Log.Type)
	v.SetDefault("log.force_colors", d.Log.ForceColors)
}

// New returns a viper instance reading MDFENCE_* variables and the config
// file at path, or the first of ./.mdfence.yaml and
// ~/.config/mdfence/config.yaml when path is empty.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(path) == 0 {
		path = lookup()
	}

	if len(path) == 0 {
		return v, nil
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return v, nil
}

func lookup() string {
	candidates := []string{FileName}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "mdfence", "config.yaml"))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}

	return ""
}

// Load decodes the settings held by v. Empty strings and lists fall back
// to their defaults.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	d := Defaults()

	for _, m := range []struct{ dst, src interface{} }{
		{&cfg.Fence, d.Fence},
		{&cfg.Lens, d.Lens},
		{&cfg.Log, d.Log},
	} {
		if err := mergo.Merge(m.dst, m.src); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if strings.ContainsAny(c.Fence.Marker, " \t\r\n") {
		return fmt.Errorf("%w: fence marker %q contains whitespace", ErrInvalid, c.Fence.Marker)
	}

	for _, name := range c.Lens.Actions {
		if strings.ContainsAny(name, "*?[{") {
			continue
		}

		k, err := action.ParseKind(name)
		if err != nil {
			return fmt.Errorf("%w: lens.actions: %w", ErrInvalid, err)
		}

		if !slices.Contains(action.Kinds, k) {
			return fmt.Errorf("%w: lens.actions: %s has no anchor", ErrInvalid, k)
		}
	}

	p := c.Padding
	if p.CloneBefore < 0 || p.CloneAfter < 0 || p.SurroundBefore < 0 || p.SurroundAfter < 0 || p.Column < 0 {
		return fmt.Errorf("%w: padding must not be negative", ErrInvalid)
	}

	return nil
}

// WriteDefault writes the default settings as YAML to path.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gomnd
			return err
		}
	}

	return os.WriteFile(path, data, 0o600) //nolint:gomnd
}

var (
	// ErrInvalid is returned by [Config.Validate].
	ErrInvalid = errors.New("invalid configuration")
	// ErrExists is returned by [WriteDefault] when the file exists.
	ErrExists = errors.New("config file already exists")
)
