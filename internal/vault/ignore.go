package vault

import (
	"fmt"

	"github.com/gobwas/glob"
)

// IgnoreMatcher decides which vault-relative paths are excluded from scanning.
type IgnoreMatcher struct {
	patterns []glob.Glob
}

// NewIgnoreMatcher compiles glob patterns with '/' as the path separator,
// so "*" stays within one folder and "**" crosses folders.
func NewIgnoreMatcher(patterns []string) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern '%s': %w", pattern, err)
		}
		m.patterns = append(m.patterns, g)
	}
	return m, nil
}

// Match reports whether relPath matches any ignore pattern.
func (m *IgnoreMatcher) Match(relPath string) bool {
	if m == nil {
		return false
	}
	for _, g := range m.patterns {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}
