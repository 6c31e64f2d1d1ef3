package matcher

import "testing"

func mustNew(t *testing.T, pattern string, ignoreCase, wordBoundary bool) *Matcher {
	t.Helper()
	m, err := New(pattern, ignoreCase, wordBoundary)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", pattern, err)
	}
	return m
}

func TestLiteralFindFirst(t *testing.T) {
	m := mustNew(t, "hello", false, false)
	got, ok := m.FindFirst([]byte("say hello world"))
	if !ok || got != (MatchResult{Start: 4, End: 9}) {
		t.Fatalf("got %+v ok=%v, want {4 9} true", got, ok)
	}
}

func TestIgnoreCaseLiteral(t *testing.T) {
	m := mustNew(t, "Hello", true, false)
	got, ok := m.FindFirst([]byte("say HELLO world"))
	if !ok || got.Start != 4 || got.End != 9 {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
	if _, ok := mustNew(t, "zz", true, false).FindFirst([]byte("nothing here")); ok {
		t.Fatalf("unexpected match")
	}
}

func TestRegexPath(t *testing.T) {
	m := mustNew(t, "cat|dog", false, false)
	if _, ok := m.FindFirst([]byte("I have a dog")); !ok {
		t.Fatalf("expected match")
	}
}

func TestWordBoundary(t *testing.T) {
	m := mustNew(t, "cat", false, true)

	if _, ok := m.FindFirst([]byte("concatenate")); ok {
		t.Fatalf("cat inside concatenate should be rejected by word boundary")
	}
	got, ok := m.FindFirst([]byte("the cat sat"))
	if !ok || got.Start != 4 || got.End != 7 {
		t.Fatalf("got %+v ok=%v, want {4 7} true", got, ok)
	}
}

func TestWordBoundaryGreedySuffixMakesProgress(t *testing.T) {
	// ".*cat" always reports start=0 since its nominal start never
	// advances; "concatenate" contains exactly one "cat" substring and it
	// sits mid-word, so every candidate fails the boundary check. The
	// retry-for-progress rule must still terminate instead of looping on
	// start=0 forever.
	m := mustNew(t, ".*cat", false, true)
	if _, ok := m.FindFirst([]byte("concatenate")); ok {
		t.Fatalf("expected no word-boundary match, and no infinite loop")
	}
}

func TestWordBoundaryAtStringEdges(t *testing.T) {
	m := mustNew(t, "cat", false, true)
	if _, ok := m.FindFirst([]byte("cat")); !ok {
		t.Fatalf("cat should match itself, bounded by string edges")
	}
}

func TestWordBoundaryRetriesShorterEndAtSameStart(t *testing.T) {
	// ".*_cache" has exactly one nominal start (0) but four valid lengths
	// in this haystack, one per "_cache" occurrence (ends 33, 25, 16, 7).
	// The longest (end=33) lands mid-word ("_x"); the second-longest
	// (end=25) lands on the space before "d_cache_x" and is the first one
	// that's actually a word boundary on both ends.
	m := mustNew(t, ".*_cache", false, true)
	got, ok := m.FindFirst([]byte("a_cache_ b_cache_ c_cache d_cache_x"))
	if !ok || got != (MatchResult{Start: 0, End: 25}) {
		t.Fatalf("got %+v ok=%v, want {0 25} true", got, ok)
	}
}

func TestPrefixExposure(t *testing.T) {
	m := mustNew(t, "needle", false, false)
	if string(m.Prefix()) != "needle" {
		t.Fatalf("literal prefix = %q", m.Prefix())
	}

	mi := mustNew(t, "needle", true, false)
	if mi.Prefix() != nil {
		t.Fatalf("case-folded literal should not expose an exact-byte prefix")
	}

	mr := mustNew(t, "ab*c_suffix", false, false)
	if mr.Prefix() != nil {
		t.Fatalf("regex prefix = %q, want nil: \"b\" is optional so only \"a\" is unconditional", mr.Prefix())
	}

	mr2 := mustNew(t, "abc*d_suffix", false, false)
	if string(mr2.Prefix()) != "ab" {
		t.Fatalf("regex prefix = %q, want ab", mr2.Prefix())
	}
}
