package regex

// addState adds id to set, following epsilon transitions transitively. A
// consuming state (KindAny/KindChar/KindClass/KindMatch) is added but not
// recursed into — it waits for the next byte.
func addState(set *bitset256, id StateID, nfa *NFA) {
	if id == InvalidState || set.get(uint8(id)) {
		return
	}
	set.set(uint8(id))
	s := &nfa.States[id]
	if s.Kind == KindEpsilon {
		addState(set, s.Out1, nfa)
		addState(set, s.Out2, nfa)
	}
}

func containsMatch(set *bitset256, nfa *NFA) bool {
	found := false
	set.forEach(func(id uint8) bool {
		if nfa.States[id].Kind == KindMatch {
			found = true
			return false
		}
		return true
	})
	return found
}

// matchAt runs the simulation starting at input[start:], returning the end
// offset of the longest match anchored at start (leftmost-longest, spec
// §4.3 "Simulation"). ok is false if no match starts at start.
func matchAt(nfa *NFA, input []byte, start int) (end int, ok bool) {
	var current, next bitset256
	addState(&current, nfa.Start, nfa)

	longest := -1
	if containsMatch(&current, nfa) {
		longest = start
	}

	pos := start
	for pos < len(input) && !current.isEmpty() {
		b := input[pos]
		next.clearAll()
		current.forEach(func(id uint8) bool {
			s := &nfa.States[id]
			switch s.Kind {
			case KindAny:
				if b != '\n' {
					addState(&next, s.Out1, nfa)
				}
			case KindChar:
				if b == s.Char {
					addState(&next, s.Out1, nfa)
				}
			case KindClass:
				if s.Class.matches(b) {
					addState(&next, s.Out1, nfa)
				}
			}
			return true
		})
		pos++
		current, next = next, current
		if containsMatch(&current, nfa) {
			longest = pos
		}
	}

	if longest < 0 {
		return 0, false
	}
	return longest, true
}

// find scans every start offset in [0, len(input)] and returns the first
// (leftmost) position with a match, with its longest end.
func find(nfa *NFA, input []byte) (start, end int, ok bool) {
	for p := 0; p <= len(input); p++ {
		if e, matched := matchAt(nfa, input, p); matched {
			return p, e, true
		}
	}
	return 0, 0, false
}

// matchEndsAt runs the simulation starting at input[start:], returning
// every accepting end offset reachable from start, longest first. Unlike
// matchAt, this doesn't discard the shorter accept lengths along the way —
// a caller that rejects the longest match (e.g. the matcher's
// word-boundary check, spec §4.2) needs those shorter ends to retry
// against before it's allowed to advance past start.
func matchEndsAt(nfa *NFA, input []byte, start int) []int {
	var current, next bitset256
	addState(&current, nfa.Start, nfa)

	var ends []int
	if containsMatch(&current, nfa) {
		ends = append(ends, start)
	}

	pos := start
	for pos < len(input) && !current.isEmpty() {
		b := input[pos]
		next.clearAll()
		current.forEach(func(id uint8) bool {
			s := &nfa.States[id]
			switch s.Kind {
			case KindAny:
				if b != '\n' {
					addState(&next, s.Out1, nfa)
				}
			case KindChar:
				if b == s.Char {
					addState(&next, s.Out1, nfa)
				}
			case KindClass:
				if s.Class.matches(b) {
					addState(&next, s.Out1, nfa)
				}
			}
			return true
		})
		pos++
		current, next = next, current
		if containsMatch(&current, nfa) {
			ends = append(ends, pos)
		}
	}

	for i, j := 0, len(ends)-1; i < j; i, j = i+1, j-1 {
		ends[i], ends[j] = ends[j], ends[i]
	}
	return ends
}
