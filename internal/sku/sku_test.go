package sku_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dreamart/internal/sku"
)

func newAllocator(t *testing.T) (*sku.Allocator, string) {
	t.Helper()
	tracker := filepath.Join(t.TempDir(), "sku-tracker.json")
	return sku.NewAllocator(tracker, "RJC", 5, nil), tracker
}

func TestNextIssuesSequentialSKUs(t *testing.T) {
	alloc, _ := newAllocator(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		got, err := alloc.Next(ctx)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		want := fmt.Sprintf("RJC-%05d", i)
		if got != want {
			t.Fatalf("call %d: got %s, want %s", i, got, want)
		}
	}
}

func TestNextSurvivesCorruptTracker(t *testing.T) {
	alloc, tracker := newAllocator(t)
	ctx := context.Background()

	if _, err := alloc.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if err := os.WriteFile(tracker, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt tracker: %v", err)
	}

	// Corrupt content reads as zero; the sequence restarts upward rather
	// than failing.
	got, err := alloc.Next(ctx)
	if err != nil {
		t.Fatalf("Next after corruption failed: %v", err)
	}
	if got != "RJC-00001" {
		t.Fatalf("expected restart at RJC-00001, got %s", got)
	}
}

func TestNextSurvivesDeletedTracker(t *testing.T) {
	alloc, tracker := newAllocator(t)
	ctx := context.Background()

	if _, err := alloc.Next(ctx); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if err := os.Remove(tracker); err != nil {
		t.Fatalf("remove tracker: %v", err)
	}
	got, err := alloc.Next(ctx)
	if err != nil {
		t.Fatalf("Next after delete failed: %v", err)
	}
	if got != "RJC-00001" {
		t.Fatalf("expected RJC-00001, got %s", got)
	}
}

func TestFormatPadsToWidth(t *testing.T) {
	alloc := sku.NewAllocator(filepath.Join(t.TempDir(), "t.json"), "ART", 4, nil)
	if got := alloc.Format(7); got != "ART-0007" {
		t.Fatalf("Format = %s", got)
	}
	if got := alloc.Format(123456); got != "ART-123456" {
		t.Fatalf("wide values must not truncate: %s", got)
	}
}

func TestExtract(t *testing.T) {
	pattern := sku.Pattern("RJC")
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"sunset-reef-RJC-00042.jpg", "RJC-00042", true},
		{"RJC-00001-THUMB.jpg", "RJC-00001", true},
		{"two-RJC-00001-and-RJC-00002", "RJC-00001", true},
		{"no-sku-here.jpg", "", false},
		{"RJC-xx.jpg", "", false},
	}
	for _, tc := range cases {
		got, ok := sku.Extract(pattern, tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Extract(%q) = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
