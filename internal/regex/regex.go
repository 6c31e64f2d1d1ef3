// Package regex implements the small Thompson-NFA engine described in
// spec §4.3: a recursive-descent compiler that builds fragments directly
// (no intermediate AST), and a byte-stepping simulator that runs all active
// states in lockstep for linear-time, leftmost-longest matching — no
// backtracking, so pathological patterns never exhibit exponential blowup.
package regex

import "github.com/alestack/sgrep/internal/scanner"

// Regex is a compiled pattern, ready to search byte slices.
type Regex struct {
	nfa    *NFA
	prefix []byte
	source string
}

// String returns the original pattern text.
func (r *Regex) String() string {
	return r.source
}

// Prefix returns the extracted literal prefix used to pre-filter input
// before running the NFA simulation, or nil if the pattern has none worth
// using (spec §4.3). Exposed so internal/matcher can report or reuse it.
func (r *Regex) Prefix() []byte {
	return r.prefix
}

// Find returns the leftmost-longest match in input, if any. When the
// pattern carries a literal prefix, a cheap scanner substring scan rules
// out non-matching input before the NFA simulation ever runs.
func (r *Regex) Find(input []byte) (start, end int, ok bool) {
	if r.prefix != nil && scanner.FindSubstring(input, r.prefix) < 0 {
		return 0, 0, false
	}
	return find(r.nfa, input)
}

// FindFrom behaves like Find but only considers matches starting at or
// after offset.
func (r *Regex) FindFrom(input []byte, offset int) (start, end int, ok bool) {
	if offset > len(input) {
		return 0, 0, false
	}
	if r.prefix != nil && scanner.FindSubstringFrom(input, r.prefix, offset) < 0 {
		return 0, 0, false
	}
	for p := offset; p <= len(input); p++ {
		if e, matched := matchAt(r.nfa, input, p); matched {
			return p, e, true
		}
	}
	return 0, 0, false
}

// MatchesAt reports whether the pattern matches starting exactly at pos,
// returning the match's end offset.
func (r *Regex) MatchesAt(input []byte, pos int) (end int, ok bool) {
	return matchAt(r.nfa, input, pos)
}

// FindFromAllEnds behaves like FindFrom but returns every accepting end at
// the leftmost matching start (longest first) instead of only the
// longest, so a caller that needs to retry a rejected longest match
// against shorter alternatives at the same start (spec §4.2 word-boundary
// retry) doesn't have to re-run the simulation from scratch for each one.
func (r *Regex) FindFromAllEnds(input []byte, offset int) (start int, ends []int, ok bool) {
	if offset > len(input) {
		return 0, nil, false
	}
	if r.prefix != nil && scanner.FindSubstringFrom(input, r.prefix, offset) < 0 {
		return 0, nil, false
	}
	for p := offset; p <= len(input); p++ {
		if e := matchEndsAt(r.nfa, input, p); len(e) > 0 {
			return p, e, true
		}
	}
	return 0, nil, false
}
