package slugs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dreamart/internal/slugs"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sunset Over Reef.jpg", "sunset-over-reef-jpg"},
		{"Crépuscule à Paris", "crepuscule-a-paris"},
		{"  --Weird__Name--  ", "weird-name"},
		{"UPPER", "upper"},
		{"slash/..\\traversal", "slash-traversal"},
		{"///", "untitled"},
		{"   ", "untitled"},
		{"already-clean-slug", "already-clean-slug"},
	}
	for _, tc := range cases {
		if got := slugs.Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"Sunset Over Reef", "Crépuscule à Paris", "a--b--c", "x"}
	for _, in := range inputs {
		once := slugs.Sanitize(in)
		twice := slugs.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeNeverProducesSeparators(t *testing.T) {
	for _, in := range []string{"a/b/c", "..", "C:\\art\\new", "nested/../../escape", "   ", "\t\n"} {
		got := slugs.Sanitize(in)
		if got == "" {
			t.Errorf("Sanitize(%q) returned empty string", in)
		}
		if strings.ContainsAny(got, "/\\") {
			t.Errorf("Sanitize(%q) = %q contains a path separator", in, got)
		}
	}
}

func TestFromFilenameStripsDerivativeSuffix(t *testing.T) {
	if got := slugs.FromFilename("Sunset-Reef-ANALYSE.jpg"); got != "sunset-reef" {
		t.Fatalf("FromFilename = %q, want sunset-reef", got)
	}
	if got := slugs.FromFilename("/uploads/New Piece.png"); got != "new-piece" {
		t.Fatalf("FromFilename = %q, want new-piece", got)
	}
}

func TestUniquePathSuffixesOnCollision(t *testing.T) {
	dir := t.TempDir()
	first := slugs.UniquePath(dir, "art.jpg")
	if filepath.Base(first) != "art.jpg" {
		t.Fatalf("expected untouched name, got %s", first)
	}
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	second := slugs.UniquePath(dir, "art.jpg")
	if filepath.Base(second) != "art-1.jpg" {
		t.Fatalf("expected art-1.jpg, got %s", second)
	}
	if err := os.WriteFile(second, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	third := slugs.UniquePath(dir, "art.jpg")
	if filepath.Base(third) != "art-2.jpg" {
		t.Fatalf("expected art-2.jpg, got %s", third)
	}
}
