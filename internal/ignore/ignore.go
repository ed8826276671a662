// Package ignore decides whether filesystem paths are excluded from
// documentation generation based on shell-glob patterns.
//
// A pattern matches against the basename of a path and against the basename
// of every ancestor directory, so ignoring ".venv" excludes everything
// beneath a ".venv" directory, not just the directory entry itself.
package ignore

import (
	"path"
	"path/filepath"
)

// DefaultPatterns is the ignore set applied when the configuration has none.
var DefaultPatterns = RuleSet{
	".venv",
	"venv",
	"node_modules",
	".git",
	"__pycache__",
	".env",
	"requirements.txt",
}

// RuleSet is an ordered, immutable set of glob patterns.
type RuleSet []string

// ShouldIgnore reports whether p or any of its ancestor directories matches
// one of the patterns. Matching uses shell-glob semantics (*, ?, [...]) on
// basenames only; a pattern never matches a substring of a name.
//
// Pure function of its inputs: no filesystem access beyond path cleaning.
func ShouldIgnore(p string, patterns RuleSet) bool {
	if len(patterns) == 0 {
		return false
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}

	for cur := abs; ; {
		base := filepath.Base(cur)
		for _, pattern := range patterns {
			// Malformed patterns never match.
			if ok, err := path.Match(pattern, base); err == nil && ok {
				return true
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur { // reached the filesystem root
			break
		}
		cur = parent
	}
	return false
}

// Matcher binds a RuleSet for repeated checks during a collection pass.
type Matcher struct {
	patterns RuleSet
}

// NewMatcher returns a Matcher over the given patterns.
func NewMatcher(patterns RuleSet) *Matcher {
	return &Matcher{patterns: patterns}
}

// ShouldIgnore applies the bound rule set to p.
func (m *Matcher) ShouldIgnore(p string) bool {
	return ShouldIgnore(p, m.patterns)
}

// Patterns returns the bound rule set.
func (m *Matcher) Patterns() RuleSet {
	return m.patterns
}
