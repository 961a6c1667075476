// Package lens computes the action anchors shown above each fenced block.
package lens

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/ezerfernandes/mdfence/internal/action"
	"github.com/ezerfernandes/mdfence/internal/fence"
)

// LanguageMarkdown is the language id anchors are offered for.
const LanguageMarkdown = "markdown"

// Document is a view of one open document.
type Document struct {
	URI        string
	LanguageID string
	Text       string
}

// ActionAnchor is one clickable action placed on a block's opening fence.
type ActionAnchor struct {
	Range fence.BlockRange
	// Line is the zero-based line of the opening fence.
	Line   int
	Block  int
	Kind   action.Kind
	Label  string
	Action action.Action
}

// Options configures a Provider.
type Options struct {
	Marker string
	// Actions are glob patterns selecting the enabled actions, in display
	// order. Empty enables every action.
	Actions []string
	// RunButton shows the run anchor.
	RunButton bool
	Logger    *logrus.Entry
}

// Provider scans documents for anchors. Results are cached per document
// content until the provider is refreshed.
type Provider struct {
	marker  string
	kinds   []action.Kind
	cache   *cache.Cache
	log     *logrus.Entry
	mu      sync.Mutex
	changed chan struct{}
}

// NewProvider compiles the enabled action patterns.
func NewProvider(opts Options) (*Provider, error) {
	kinds, err := enabled(opts.Actions, opts.RunButton)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		marker:  opts.Marker,
		kinds:   kinds,
		cache:   cache.New(5*time.Minute, 10*time.Minute), //nolint:gomnd
		log:     opts.Logger,
		changed: make(chan struct{}, 1),
	}

	if p.log == nil {
		p.log = logrus.WithField("component", "lens")
	}

	return p, nil
}

func enabled(patterns []string, runButton bool) ([]action.Kind, error) {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}

	var (
		kinds []action.Kind
		seen  = make(map[action.Kind]bool)
	)

	for _, pattern := range patterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("action pattern %q: %w", pattern, err)
		}

		matched := false

		for _, k := range action.Kinds {
			if !g.Match(string(k)) {
				continue
			}

			matched = true

			if seen[k] || (k == action.KindRun && !runButton) {
				continue
			}

			seen[k] = true
			kinds = append(kinds, k)
		}

		if !matched {
			return nil, fmt.Errorf("%w: %q", action.ErrUnknownAction, pattern)
		}
	}

	return kinds, nil
}

// Kinds returns the enabled actions in display order.
func (p *Provider) Kinds() []action.Kind {
	return append([]action.Kind(nil), p.kinds...)
}

func (p *Provider) key(doc Document) string {
	sum := sha256.Sum256([]byte(doc.Text))

	return doc.URI + "@" + hex.EncodeToString(sum[:])
}

// Anchors returns the anchors of doc: one per block and enabled action, in
// document order. Documents that are not markdown have none.
func (p *Provider) Anchors(doc Document) []ActionAnchor {
	if doc.LanguageID != LanguageMarkdown {
		return nil
	}

	key := p.key(doc)
	if cached, ok := p.cache.Get(key); ok {
		anchors, _ := cached.([]ActionAnchor)

		return append([]ActionAnchor(nil), anchors...)
	}

	var anchors []ActionAnchor

	index := 0

	for block := range fence.Scan(doc.Text, p.marker) {
		for _, k := range p.kinds {
			a, err := action.ForBlock(k, block)
			if err != nil {
				p.log.WithFields(logrus.Fields{"uri": doc.URI, "line": block.OpenLine, "action": k}).
					WithError(err).Warn("skipping anchor")

				continue
			}

			anchors = append(anchors, ActionAnchor{
				Range:  block.Range(),
				Line:   block.OpenLine,
				Block:  index,
				Kind:   k,
				Label:  k.Label(),
				Action: a,
			})
		}

		index++
	}

	p.log.WithFields(logrus.Fields{"uri": doc.URI, "blocks": index, "anchors": len(anchors)}).Debug("anchors computed")
	p.cache.Set(key, anchors, cache.DefaultExpiration)

	return append([]ActionAnchor(nil), anchors...)
}

// Find returns the anchor of kind k on the block-th block of doc.
func (p *Provider) Find(doc Document, block int, k action.Kind) (ActionAnchor, bool) {
	for _, a := range p.Anchors(doc) {
		if a.Block == block && a.Kind == k {
			return a, true
		}
	}

	return ActionAnchor{}, false
}

// Refresh discards cached anchors and signals listeners of Changed.
func (p *Provider) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache.Flush()

	select {
	case p.changed <- struct{}{}:
	default:
	}
}

// Changed delivers a value after every Refresh that has not been consumed.
func (p *Provider) Changed() <-chan struct{} {
	return p.changed
}
