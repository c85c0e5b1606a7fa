package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{".venv", "build/", "*.pyc", "docs/*.draft", " ", "./tmp"})
	require.NoError(t, err)

	tests := []struct {
		rel   string
		isDir bool
		want  bool
	}{
		{".venv", true, true},
		{"nested/.venv", true, true},
		{".venvrc", false, false},
		{"build", true, true},
		{"build", false, false},
		{"src/build", true, true},
		{"a.pyc", false, true},
		{"pkg/mod.pyc", false, true},
		{"a.py", false, false},
		{"docs/x.draft", false, true},
		{"other/x.draft", false, false},
		{"tmp", true, true},
		{".", true, false},
		{"", false, false},
	}

	for _, tt := range tests {
		_, got := m.Match(tt.rel, tt.isDir)
		assert.Equal(t, tt.want, got, "Match(%q, dir=%v)", tt.rel, tt.isDir)
	}
}

func TestMatcherReportsPattern(t *testing.T) {
	m, err := NewMatcher([]string{"venv/"})
	require.NoError(t, err)
	pat, ok := m.Match("venv", true)
	assert.True(t, ok)
	assert.Equal(t, "venv/", pat)
}

func TestMatcherRejectsBadPattern(t *testing.T) {
	_, err := NewMatcher([]string{"[a-"})
	assert.Error(t, err)
}

func TestMatcherPatterns(t *testing.T) {
	m, err := NewMatcher([]string{"a", "", "b/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b/"}, m.Patterns())

	var nilMatcher *Matcher
	_, ok := nilMatcher.Match("a", false)
	assert.False(t, ok)
}
