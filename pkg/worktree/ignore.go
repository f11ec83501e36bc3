package worktree

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnore is always part of an IgnoreSet.
var DefaultIgnore = []string{RepoDir, ConfigFile}

// IgnoreSet matches paths by exact component name. A pattern "target"
// excludes target/ and a/target but not targetfile.txt; there are no
// globs.
type IgnoreSet struct {
	patterns map[string]struct{}
}

// NewIgnoreSet returns DefaultIgnore unioned with patterns. Blank
// patterns are dropped.
func NewIgnoreSet(patterns ...string) *IgnoreSet {
	s := &IgnoreSet{patterns: make(map[string]struct{}, len(DefaultIgnore)+len(patterns))}
	for _, p := range DefaultIgnore {
		s.patterns[p] = struct{}{}
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s.patterns[p] = struct{}{}
	}
	return s
}

// Patterns returns the sorted pattern list.
func (s *IgnoreSet) Patterns() []string {
	out := make([]string, 0, len(s.patterns))
	for p := range s.patterns {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Match reports whether any component of the root-relative relPath equals
// a pattern.
func (s *IgnoreSet) Match(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if part == "" {
			continue
		}
		if _, ok := s.patterns[part]; ok {
			return true
		}
	}
	return false
}
