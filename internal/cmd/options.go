package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ezerfernandes/mdfence/internal/action"
	"github.com/ezerfernandes/mdfence/internal/clipboard"
	"github.com/ezerfernandes/mdfence/internal/config"
	"github.com/ezerfernandes/mdfence/internal/host"
	"github.com/ezerfernandes/mdfence/internal/lens"
)

const stdinName = "-"

type options struct {
	cfgFile string
	cfg     config.Config
	viper   *viper.Viper

	fsys   filesystem
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// clip and confirm replace the system clipboard and the interactive
	// prompt when set.
	clip    clipboard.Clipboard
	confirm host.Confirmer
	color   bool
}

func newOptions(fsys filesystem, stdin io.Reader, stdout, stderr io.Writer) *options {
	return &options{
		cfg:    config.Defaults(),
		fsys:   fsys,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		color:  isTerminal(stderr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (opts *options) status(format string, args ...any) {
	fmt.Fprintf(opts.stderr, format, args...)
}

func (opts *options) logger(command string) *logrus.Entry {
	return logrus.WithField("command", command)
}

func source(args []string) string {
	if len(args) == 0 {
		return stdinName
	}

	return args[0]
}

func (opts *options) read(name string) (string, error) {
	var (
		data []byte
		err  error
	)

	if name == stdinName {
		data, err = io.ReadAll(opts.stdin)
	} else {
		data, err = fs.ReadFile(opts.fsys, name)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (opts *options) write(name, text string) error {
	if name == stdinName {
		_, err := io.WriteString(opts.stdout, text)

		return err
	}

	return opts.fsys.WriteFile(name, []byte(text), fileMode)
}

func (opts *options) document(name string) (lens.Document, error) {
	text, err := opts.read(name)
	if err != nil {
		return lens.Document{}, err
	}

	return lens.Document{URI: name, LanguageID: languageOf(name), Text: text}, nil
}

func languageOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case "", ".md", ".markdown", ".mdown", ".mkd":
		return lens.LanguageMarkdown
	default:
		return strings.TrimPrefix(filepath.Ext(name), ".")
	}
}

func (opts *options) provider() (*lens.Provider, error) {
	return lens.NewProvider(lens.Options{
		Marker:    opts.cfg.Fence.Marker,
		Actions:   opts.cfg.Lens.Actions,
		RunButton: opts.cfg.Run.Enabled,
		Logger:    opts.logger("lens"),
	})
}

func (opts *options) dispatcher() (*action.Dispatcher, error) {
	return action.NewDispatcher(action.Options{
		Marker:        opts.cfg.Fence.Marker,
		Padding:       opts.cfg.Padding,
		ClearTerminal: opts.cfg.Run.ClearTerminal,
		ConfirmOrgs:   opts.cfg.Run.ConfirmOrgs,
		Logger:        opts.logger("dispatch"),
	})
}

type filterFunc func(info string) bool

// filter keeps blocks whose info string language matches one of the lang
// patterns. An empty pattern list keeps everything.
func filter(lang []string) (filterFunc, error) {
	if len(lang) == 0 {
		return func(string) bool { return true }, nil
	}

	globs := make([]glob.Glob, 0, len(lang))

	for _, pattern := range lang {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errInvalidPattern, pattern)
		}

		globs = append(globs, g)
	}

	return func(info string) bool {
		tag, err := action.ParseTag(info)
		if err != nil {
			return false
		}

		for _, g := range globs {
			if g.Match(tag.Language) {
				return true
			}
		}

		return false
	}, nil
}

type notifier struct {
	out   io.Writer
	color bool
}

var notifyStyles = map[string]string{
	"info":    "green",
	"warning": "yellow",
	"error":   "red+b",
}

func (n notifier) print(level, msg string) {
	prefix := level + ":"
	if n.color {
		prefix = ansi.Color(prefix, notifyStyles[level])
	}

	fmt.Fprintln(n.out, prefix, msg)
}

func (n notifier) Info(msg string)  { n.print("info", msg) }
func (n notifier) Warn(msg string)  { n.print("warning", msg) }
func (n notifier) Error(msg string) { n.print("error", msg) }

var errInvalidPattern = errors.New("invalid pattern")
