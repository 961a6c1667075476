package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdfence/internal/config"
	"github.com/ezerfernandes/mdfence/internal/lens"
)

//go:embed help/watch.md
var watchHelp string

const debounce = 100 * time.Millisecond

func watchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "watch [filename]",
		Short: "Re-list the block actions whenever the document or config changes",
		Long:  watchHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == stdinName {
				return errWatchStdin
			}

			w, err := opts.newWatch(name)
			if err != nil {
				return err
			}

			defer w.close()

			return w.run(cmd.Context())
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

// watch re-renders the anchors of one document. Config changes rebuild the
// provider and refresh it; document changes render straight away.
type watch struct {
	opts     *options
	fs       *fsnotify.Watcher
	name     string
	doc      string
	cfg      string
	provider *lens.Provider
}

func (opts *options) newWatch(name string) (*watch, error) {
	doc, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}

	provider, err := opts.provider()
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &watch{opts: opts, fs: fsw, name: name, doc: doc, provider: provider}

	dirs := []string{filepath.Dir(doc)}

	if opts.viper != nil && opts.viper.ConfigFileUsed() != "" {
		if w.cfg, err = filepath.Abs(opts.viper.ConfigFileUsed()); err == nil && filepath.Dir(w.cfg) != dirs[0] {
			dirs = append(dirs, filepath.Dir(w.cfg))
		}
	}

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()

			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	return w, nil
}

func (w *watch) close() error {
	return w.fs.Close()
}

func (w *watch) render() error {
	doc, err := w.opts.document(w.name)
	if err != nil {
		return err
	}

	return renderLenses(w.opts.stdout, w.provider, doc, w.opts.cfg.Fence.Marker, func(string) bool { return true })
}

func (w *watch) reload() error {
	if err := w.opts.viper.ReadInConfig(); err != nil {
		return err
	}

	cfg, err := config.Load(w.opts.viper)
	if err != nil {
		return err
	}

	w.opts.cfg = cfg

	provider, err := w.opts.provider()
	if err != nil {
		return err
	}

	w.provider = provider
	w.provider.Refresh()

	return nil
}

func (w *watch) run(ctx context.Context) error {
	log := w.opts.logger("watch")

	if err := w.render(); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending = map[string]bool{}
	)

	fired := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}

		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			path, relevant := w.relevant(event)
			if !relevant {
				continue
			}

			pending[path] = true

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

		case <-fired():
			timer = nil

			w.flush(pending)

			pending = map[string]bool{}

		case <-w.provider.Changed():
			if err := w.render(); err != nil {
				log.WithError(err).Warn("document not rendered")
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			log.WithError(err).Warn("watch error")
		}
	}
}

// flush applies the changes collected in one debounce window. A reloaded
// config renders through Changed, so the document is not rendered here too.
func (w *watch) flush(pending map[string]bool) {
	log := w.opts.logger("watch")

	if pending[w.cfg] {
		err := w.reload()
		if err == nil {
			return
		}

		log.WithError(err).Warn("config not reloaded")
	}

	if pending[w.doc] {
		if err := w.render(); err != nil {
			log.WithError(err).Warn("document not rendered")
		}
	}
}

func (w *watch) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return "", false
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}

	return path, path == w.doc || (w.cfg != "" && path == w.cfg)
}

var errWatchStdin = errors.New("watch needs a file name")
