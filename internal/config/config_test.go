package config

import (
	"errors"
	"testing"
)

func TestResolveDefaultsRootToCWD(t *testing.T) {
	r, err := Resolve(Resolved{Pattern: "foo", Jobs: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(r.Roots) != 1 || r.Roots[0] != "." {
		t.Errorf("Roots = %v, want [.]", r.Roots)
	}
}

func TestResolveRejectsEmptyPattern(t *testing.T) {
	_, err := Resolve(Resolved{Jobs: 1})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Kind != ErrEmptyPattern {
		t.Fatalf("err = %v, want ErrEmptyPattern", err)
	}
}

func TestResolveRejectsBadJobs(t *testing.T) {
	_, err := Resolve(Resolved{Pattern: "foo", Jobs: 0})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Kind != ErrInvalidJobs {
		t.Fatalf("err = %v, want ErrInvalidJobs", err)
	}
}

func TestResolveRejectsNegativeMaxDepth(t *testing.T) {
	_, err := Resolve(Resolved{Pattern: "foo", Jobs: 1, MaxDepth: -1})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Kind != ErrInvalidMaxDepth {
		t.Fatalf("err = %v, want ErrInvalidMaxDepth", err)
	}
}

func TestResolveRejectsConflictingModes(t *testing.T) {
	_, err := Resolve(Resolved{Pattern: "foo", Jobs: 1, CountOnly: true, FilesOnly: true})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Kind != ErrConflictingModes {
		t.Fatalf("err = %v, want ErrConflictingModes", err)
	}
}

func TestResolvePreservesExplicitRoots(t *testing.T) {
	r, err := Resolve(Resolved{Pattern: "foo", Jobs: 4, Roots: []string{"src", "pkg"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(r.Roots) != 2 || r.Roots[0] != "src" || r.Roots[1] != "pkg" {
		t.Errorf("Roots = %v, want [src pkg]", r.Roots)
	}
}
