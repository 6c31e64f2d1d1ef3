package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alestack/sgrep/internal/config"
)

func newTestSink(buf *bytes.Buffer, cfg config.Resolved) *Sink {
	return NewSink(buf, cfg, false)
}

func TestFlatModeRendersPathLineColon(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSink(&buf, config.Resolved{})
	fb := s.NewFileBuffer("main.go")
	fb.AddMatch(3, []byte("func main() {"), 0, 4)
	fb.Flush()
	s.Flush()

	got := buf.String()
	want := "main.go:3:func main() {\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if s.TotalMatches() != 1 {
		t.Errorf("TotalMatches() = %d, want 1", s.TotalMatches())
	}
}

func TestHeadingModeGroupsMatchesUnderOnePathLine(t *testing.T) {
	var buf bytes.Buffer
	heading := true
	s := newTestSink(&buf, config.Resolved{Heading: &heading})
	fb := s.NewFileBuffer("a.go")
	fb.AddMatch(1, []byte("one"), 0, 3)
	fb.AddMatch(2, []byte("two"), 0, 3)
	fb.Flush()
	s.Flush()

	got := buf.String()
	if !strings.HasPrefix(got, "a.go\n") {
		t.Errorf("expected heading line first, got %q", got)
	}
	if !strings.Contains(got, "1:one\n") || !strings.Contains(got, "2:two\n") {
		t.Errorf("expected both match lines, got %q", got)
	}
	if !strings.HasSuffix(got, "\n\n") {
		t.Errorf("expected trailing blank line separating files, got %q", got)
	}
}

func TestCountOnlyEmitsOneLinePerFile(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSink(&buf, config.Resolved{CountOnly: true})
	fb := s.NewFileBuffer("x.go")
	fb.AddMatch(1, []byte("a"), 0, 1)
	fb.AddMatch(2, []byte("b"), 0, 1)
	fb.AddMatch(3, []byte("c"), 0, 1)
	fb.Flush()
	s.Flush()

	if got := buf.String(); got != "x.go:3\n" {
		t.Errorf("got %q, want x.go:3", got)
	}
}

func TestFilesOnlyStopsAfterFirstMatch(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSink(&buf, config.Resolved{FilesOnly: true})
	fb := s.NewFileBuffer("y.go")
	stop := fb.AddMatch(1, []byte("a"), 0, 1)
	if !stop {
		t.Fatalf("AddMatch should signal stop in files-only mode")
	}
	fb.Flush()
	s.Flush()

	if got := buf.String(); got != "y.go\n" {
		t.Errorf("got %q, want y.go", got)
	}
}

func TestFileWithNoMatchesWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSink(&buf, config.Resolved{})
	fb := s.NewFileBuffer("empty.go")
	fb.Flush()
	s.Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestColorWrapsPathLineNumberAndMatch(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, config.Resolved{Color: config.ColorAlways}, false)
	fb := s.NewFileBuffer("c.go")
	fb.AddMatch(5, []byte("hello world"), 6, 11)
	fb.Flush()
	s.Flush()

	got := buf.String()
	for _, want := range []string{colorPath, colorLineNum, colorSep, colorMatch, colorReset} {
		if !strings.Contains(got, want) {
			t.Errorf("expected color escape %q in output %q", want, got)
		}
	}
}
