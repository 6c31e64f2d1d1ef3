package ignore

import "strings"

// segment is one '/'-delimited piece of a pattern.
type segment struct {
	value      string
	wildcard   bool // contains *, ?, [ or \ and needs matchGlob
	doubleStar bool // the whole segment was "**"
}

// ruleTemplate is a parsed pattern with no directory scope attached yet —
// the part that is safe to cache across .gitignore files with identical
// content (see cache.go).
type ruleTemplate struct {
	pattern  string
	segments []segment
	negate   bool
	dirOnly  bool
	anchored bool
}

// rule is a ruleTemplate bound to the directory that owns it.
type rule struct {
	ruleTemplate
	root string // directory containing the .gitignore this rule came from
}

// isLiteral reports whether the pattern is a plain literal the
// Aho-Corasick pre-filter can index: no wildcard segments and not negated.
func (t ruleTemplate) isLiteral() bool {
	if t.negate {
		return false
	}
	for _, s := range t.segments {
		if s.wildcard || s.doubleStar {
			return false
		}
	}
	return true
}

// literalText reconstructs the plain path text a literal ruleTemplate
// matches, joined by '/'.
func (t ruleTemplate) literalText() string {
	parts := make([]string, len(t.segments))
	for i, s := range t.segments {
		parts[i] = s.value
	}
	return strings.Join(parts, "/")
}

// parseLines parses the full content of one ignore file into templates,
// in source order (order matters for last-match-wins).
func parseLines(content []byte) []ruleTemplate {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]ruleTemplate, 0, len(lines))
	for _, line := range lines {
		if t, ok := parseLine(line); ok {
			out = append(out, t)
		}
	}
	return out
}

// parseLine parses a single gitignore-style line: trim surrounding ASCII
// whitespace (including '\r'), skip blanks/comments, resolve negation and
// escaping, strip a trailing dir-only slash, then resolve anchoring before
// splitting into segments.
func parseLine(line string) (ruleTemplate, bool) {
	line = strings.Trim(line, " \t\r\n\v\f")
	if line == "" || strings.HasPrefix(line, "#") {
		return ruleTemplate{}, false
	}
	original := line

	negate := false
	switch {
	case strings.HasPrefix(line, `\!`):
		line = line[1:]
	case strings.HasPrefix(line, "!"):
		negate = true
		line = line[1:]
	}
	if strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	dirOnly := false
	if strings.HasSuffix(line, "/") {
		dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if line == "" {
		return ruleTemplate{}, false
	}

	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = line[1:]
		if line == "" {
			return ruleTemplate{}, false
		}
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		anchored = true
	}

	return ruleTemplate{
		pattern:  original,
		segments: parseSegments(line),
		negate:   negate,
		dirOnly:  dirOnly,
		anchored: anchored,
	}, true
}

func parseSegments(pattern string) []segment {
	parts := strings.Split(pattern, "/")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if p == "**" {
			segs = append(segs, segment{doubleStar: true})
			continue
		}
		s := segment{value: p}
		if strings.ContainsAny(p, "*?[\\") {
			s.wildcard = true
		}
		segs = append(segs, s)
	}
	return segs
}
