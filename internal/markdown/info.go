package markdown

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// Meta is the key=value part of an info string, for example the
// "timeout=5" in "sh|prod timeout=5". JSON objects keep their value types.
type Meta map[string]any

// Get renders the value stored under name, or "" when there is none.
func (m Meta) Get(name string) string {
	switch v := m[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Info is a parsed fence info string of the form
// "language|organization key=value ...".
type Info struct {
	Lang string
	Org  string
	Meta Meta
}

var reInfo = regexp.MustCompile(`^\s*([^\s|{]*)(?:\|(\S*))?\s*(.*?)\s*$`)

// ParseInfo splits a fence info string into its language, organization and
// metadata parts.
func ParseInfo(text string) (Info, error) {
	all := reInfo.FindStringSubmatch(text)
	if all == nil {
		return Info{}, nil
	}

	meta, err := parseMeta(all[3])
	if err != nil {
		return Info{}, fmt.Errorf("info %q: %w", text, err)
	}

	return Info{Lang: all[1], Org: all[2], Meta: meta}, nil
}

// parseMeta reads either a JSON object or shell words, optionally wrapped
// in braces. Words without "=" are ignored.
func parseMeta(text string) (Meta, error) {
	text = strings.TrimSpace(text)

	if isJSONObject(text) {
		meta := Meta{}
		if err := json.Unmarshal([]byte(text), &meta); err != nil {
			return nil, err
		}

		return meta, nil
	}

	if inner, ok := strings.CutPrefix(text, "{"); ok {
		text = strings.TrimSuffix(inner, "}")
	}

	words, err := shlex.Split(text)
	if err != nil {
		return nil, err
	}

	meta := make(Meta, len(words))

	for _, word := range words {
		if key, value, ok := strings.Cut(word, "="); ok {
			meta[key] = value
		}
	}

	return meta, nil
}

// isJSONObject reports whether text opens with "{" followed by a quoted key
// or the closing brace.
func isJSONObject(text string) bool {
	rest, ok := strings.CutPrefix(text, "{")
	if !ok {
		return false
	}

	rest = strings.TrimSpace(rest)

	return strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "}")
}
