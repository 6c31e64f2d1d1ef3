// Package matcher implements the unified find interface from spec §4.2: it
// picks a literal or regex search strategy at construction time and applies
// case folding and word-boundary filtering uniformly over either path.
package matcher

import (
	"github.com/alestack/sgrep/internal/regex"
	"github.com/alestack/sgrep/internal/scanner"
)

// MatchResult is a half-open byte range [Start, End) into a searched
// haystack.
type MatchResult struct {
	Start, End int
}

// Matcher finds the leftmost occurrence of a pattern in arbitrary byte
// slices, honoring case-insensitivity and word-boundary constraints.
type Matcher struct {
	literal      []byte // nil when the pattern needed the regex engine
	literalLower []byte // precomputed lowercase copy, IgnoreCase literal path only
	re           *regex.Regex
	ignoreCase   bool
	wordBoundary bool
}

// New builds a Matcher for pattern. Patterns with no regex metacharacters
// take the literal fast path; anything else is compiled with the regex
// engine (§4.3).
func New(pattern string, ignoreCase, wordBoundary bool) (*Matcher, error) {
	m := &Matcher{ignoreCase: ignoreCase, wordBoundary: wordBoundary}

	if regex.IsLiteral(pattern) {
		m.literal = []byte(pattern)
		if ignoreCase {
			m.literalLower = toLowerASCII([]byte(pattern))
		}
		return m, nil
	}

	re, err := regex.Compile(pattern)
	if err != nil {
		return nil, err
	}
	m.re = re
	return m, nil
}

// FindFirst returns the leftmost match in haystack. When word-boundary
// filtering is on, a start whose longest candidate fails the boundary
// check retries against every shorter accepting end at that same start
// (longest first) before the search is allowed to advance past it — a
// greedy pattern like ".*_cache" has exactly one start but many valid
// lengths, and the first one tried isn't necessarily the one whose end
// sits on a word boundary (spec §4.2).
func (m *Matcher) FindFirst(haystack []byte) (MatchResult, bool) {
	pos := 0
	for pos <= len(haystack) {
		start, ends, ok := m.candidatesFrom(haystack, pos)
		if !ok {
			return MatchResult{}, false
		}
		for _, end := range ends {
			if !m.wordBoundary || isWordBoundaryMatch(haystack, start, end) {
				return MatchResult{Start: start, End: end}, true
			}
		}
		pos = start + 1
	}
	return MatchResult{}, false
}

// candidatesFrom returns the leftmost matching start at or after offset,
// along with every accepting end at that start (longest first). A literal
// match has exactly one length, so its slice always has a single element.
func (m *Matcher) candidatesFrom(haystack []byte, offset int) (start int, ends []int, ok bool) {
	if offset > len(haystack) {
		return 0, nil, false
	}
	if m.literal != nil {
		s, e, ok := m.findLiteralFrom(haystack, offset)
		if !ok {
			return 0, nil, false
		}
		return s, []int{e}, true
	}
	return m.re.FindFromAllEnds(haystack, offset)
}

func (m *Matcher) findLiteralFrom(haystack []byte, offset int) (start, end int, ok bool) {
	if !m.ignoreCase {
		idx := scanner.FindSubstringFrom(haystack, m.literal, offset)
		if idx < 0 {
			return 0, 0, false
		}
		return idx, idx + len(m.literal), true
	}
	idx := indexFoldFrom(haystack, m.literalLower, offset)
	if idx < 0 {
		return 0, 0, false
	}
	return idx, idx + len(m.literal), true
}

// indexFoldFrom scans haystack for needleLower (already lowercased) using
// an on-the-fly ASCII tolower comparator, per spec §4.2: no full-haystack
// copy is ever allocated.
func indexFoldFrom(haystack, needleLower []byte, offset int) int {
	n := len(needleLower)
	if n == 0 {
		if offset <= len(haystack) {
			return offset
		}
		return -1
	}
	for i := offset; i+n <= len(haystack); i++ {
		if matchesFold(haystack[i:i+n], needleLower) {
			return i
		}
	}
	return -1
}

func matchesFold(hay, needleLower []byte) bool {
	for i, want := range needleLower {
		if toLowerByte(hay[i]) != want {
			return false
		}
	}
	return true
}

func toLowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func toLowerASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = toLowerByte(c)
	}
	return out
}

// isWordByte reports whether b counts as part of a "word" for boundary
// purposes: ASCII alphanumerics, underscore, or any non-ASCII byte — the
// latter conservatively treats all UTF-8 continuation/leading bytes as
// word bytes (spec §4.2). CJK ideographs therefore behave as word
// characters, but so does CJK punctuation, so a boundary next to, say, a
// full-width comma is not recognized.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

func isWordBoundaryMatch(haystack []byte, start, end int) bool {
	return isBoundaryAt(haystack, start) && isBoundaryAt(haystack, end)
}

// isBoundaryAt reports whether pos sits between a word byte and a
// non-word byte (or against either end of haystack).
func isBoundaryAt(haystack []byte, pos int) bool {
	var before, after bool
	if pos > 0 {
		before = isWordByte(haystack[pos-1])
	}
	if pos < len(haystack) {
		after = isWordByte(haystack[pos])
	}
	return before != after
}

// Prefix exposes the compiled regex's literal prefix, or the literal
// pattern itself, for callers that want to pre-filter a whole file before
// scanning it line by line.
func (m *Matcher) Prefix() []byte {
	if m.literal != nil {
		if m.ignoreCase {
			return nil // folded comparison can't reuse scanner's exact-byte prefilter
		}
		return m.literal
	}
	return m.re.Prefix()
}

// IsLiteral reports whether this Matcher took the literal fast path.
func (m *Matcher) IsLiteral() bool {
	return m.literal != nil
}
