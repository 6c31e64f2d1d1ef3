// Package ignore implements gitignore-style path filtering (spec §4.4):
// ordered, last-match-wins rule lists scoped to the directory that defined
// them, with an Aho-Corasick literal pre-filter for the common case of a
// pattern set containing no globs.
package ignore

import (
	"strings"
	"sync"

	"github.com/coregx/ahocorasick"
)

// alwaysIgnored is short-circuited before any pattern is consulted.
var alwaysIgnored = map[string]bool{".git": true, ".svn": true, ".hg": true}

// Matcher holds every rule loaded so far, across every .gitignore found
// while walking a tree, each tagged with the root directory it scopes to.
// Nested .gitignore files are typically discovered mid-walk by whichever
// worker enumerates their directory first, so Matcher stays safe for
// concurrent AddFile/IsIgnored calls rather than requiring every rule to
// be loaded before any worker starts (spec §5's "shared immutable" sketch
// is the steady-state case; the mutex covers the discovery transient).
type Matcher struct {
	mu          sync.RWMutex
	rules       []rule
	cache       *parseCache
	literalAuto *ahocorasick.Automaton
	hasGlob     bool
	dirty       bool
}

// New returns an empty Matcher.
func New() *Matcher {
	return &Matcher{cache: newParseCache()}
}

// AddFile parses the content of one ignore file and appends its rules,
// scoped to root (the directory relative to the search root that contains
// this ignore file; "" for the search root itself).
func (m *Matcher) AddFile(root string, content []byte) {
	templates := m.cache.parse(content)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range templates {
		m.rules = append(m.rules, rule{ruleTemplate: t, root: root})
		if !t.isLiteral() {
			m.hasGlob = true
		}
	}
	m.dirty = true
}

// rebuild constructs the Aho-Corasick automaton over every purely literal,
// non-negated rule's text. Called with mu held for writing.
func (m *Matcher) rebuild() {
	b := ahocorasick.NewBuilder()
	any := false
	for _, r := range m.rules {
		if r.isLiteral() {
			b.AddPattern([]byte(r.literalText()))
			any = true
		}
	}
	m.dirty = false
	if !any {
		m.literalAuto = nil
		return
	}
	auto, err := b.Build()
	if err != nil {
		m.literalAuto = nil
		return
	}
	m.literalAuto = auto
}

// IsIgnored reports whether path (relative to the search root, '/'
// joined, no leading slash) should be excluded from the walk. isDir
// indicates whether path names a directory.
func (m *Matcher) IsIgnored(path string, isDir bool) bool {
	if isDir && alwaysIgnored[basename(path)] {
		return true
	}

	m.mu.RLock()
	if m.dirty {
		m.mu.RUnlock()
		m.mu.Lock()
		if m.dirty {
			m.rebuild()
		}
		m.mu.Unlock()
		m.mu.RLock()
	}
	defer m.mu.RUnlock()

	// Literal pre-filter (spec §4.4): only a provable miss against every
	// literal pattern, with no glob patterns in play at all, can skip the
	// ordered rule list. Any automaton hit, or any glob pattern present,
	// still requires the full scan to preserve last-match-wins.
	if m.literalAuto != nil && !m.hasGlob {
		base := basename(path)
		if !m.literalAuto.IsMatch([]byte(path)) && !m.literalAuto.IsMatch([]byte(base)) {
			return false
		}
	}

	ignored := false
	for i := range m.rules {
		r := &m.rules[i]
		rel, ok := relativeTo(r.root, path)
		if !ok {
			continue
		}
		if matchRule(r, splitSegments(rel), isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

// RuleCount reports how many rules are currently loaded, for diagnostics.
func (m *Matcher) RuleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// relativeTo strips root from path, reporting false if path does not lie
// under root (patterns never span their root, spec §3).
func relativeTo(root, path string) (string, bool) {
	if root == "" {
		return path, true
	}
	if path == root {
		return "", true
	}
	prefix := root + "/"
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):], true
	}
	return "", false
}

func splitSegments(rel string) []string {
	if rel == "" {
		return nil
	}
	parts := strings.Split(rel, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
