package scaffold

import (
	"fmt"
	"path"
	"strings"
)

// Matcher decides which template entries are left out of a clone.
//
// Patterns use path.Match syntax and are tested against both the
// slash-separated path relative to the template root and the entry's base
// name, so ".venv" excludes a virtual environment at any depth while
// "docs/*.draft" only matches inside docs/. A trailing slash restricts a
// pattern to directories.
type Matcher struct {
	patterns []pattern
}

type pattern struct {
	raw     string
	glob    string
	dirOnly bool
}

// NewMatcher compiles patterns, rejecting malformed ones.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range patterns {
		glob := strings.TrimSpace(raw)
		if glob == "" {
			continue
		}
		p := pattern{raw: raw}
		if strings.HasSuffix(glob, "/") {
			p.dirOnly = true
			glob = strings.TrimRight(glob, "/")
		}
		glob = strings.TrimPrefix(glob, "./")
		if _, err := path.Match(glob, ""); err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", raw, err)
		}
		p.glob = glob
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether rel (slash-separated, relative to the template root)
// is excluded, and by which pattern.
func (m *Matcher) Match(rel string, isDir bool) (string, bool) {
	if m == nil || rel == "." || rel == "" {
		return "", false
	}
	base := path.Base(rel)
	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if ok, _ := path.Match(p.glob, rel); ok {
			return p.raw, true
		}
		if ok, _ := path.Match(p.glob, base); ok {
			return p.raw, true
		}
	}
	return "", false
}

// Patterns returns the patterns as given, minus blanks.
func (m *Matcher) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p.raw)
	}
	return out
}
