package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dreamart/internal/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	return registry.New(filepath.Join(t.TempDir(), "master-artwork-paths.json"), nil)
}

func TestUpsertIsAdditive(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	if err := reg.Upsert(ctx, "sunset-reef", func(r *registry.Record) {
		r.Image = "/art/processed/sunset-reef/sunset-reef-RJC-00001.jpg"
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := reg.Upsert(ctx, "winter-pines", func(r *registry.Record) {
		r.Image = "/art/processed/winter-pines/winter-pines-RJC-00002.jpg"
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// A later update to one slug must not discard the other.
	if err := reg.Upsert(ctx, "sunset-reef", func(r *registry.Record) {
		r.Status = "finalised"
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	index := reg.Load()
	if len(index) != 2 {
		t.Fatalf("expected 2 records, got %d", len(index))
	}
	got := index["sunset-reef"]
	if got.Status != "finalised" || got.Image == "" {
		t.Fatalf("merge lost fields: %#v", got)
	}
}

func TestLoadCorruptFileTreatedAsEmpty(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()
	if err := reg.Upsert(ctx, "a", func(r *registry.Record) { r.Image = "/x" }); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := os.WriteFile(reg.Path(), []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("corrupt registry: %v", err)
	}

	index := reg.Load()
	if len(index) != 0 {
		t.Fatalf("corrupt registry should read as empty, got %d records", len(index))
	}
}

func TestWritesAreAtomic(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()
	if err := reg.Upsert(ctx, "keep-me", func(r *registry.Record) { r.Image = "/keep" }); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Simulate a crash mid-write: a stray truncated temp file must never
	// affect what a reader sees at the real path.
	dir := filepath.Dir(reg.Path())
	stray := filepath.Join(dir, "."+filepath.Base(reg.Path())+".deadbeef.tmp")
	if err := os.WriteFile(stray, []byte(`{"keep-me":{"image":"/trunc`), 0o644); err != nil {
		t.Fatalf("write stray temp: %v", err)
	}

	index := reg.Load()
	if index["keep-me"].Image != "/keep" {
		t.Fatalf("previous content corrupted: %#v", index["keep-me"])
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != stray[len(dir)+1:] && strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("registry writes left temp file %s", entry.Name())
		}
	}
}

func TestRemovePurgesSlug(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()
	if err := reg.Upsert(ctx, "gone", func(r *registry.Record) { r.Image = "/gone" }); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := reg.Remove(ctx, "gone"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := reg.Get("gone"); ok {
		t.Fatal("slug still present after Remove")
	}
	// Removing again is a no-op.
	if err := reg.Remove(ctx, "gone"); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
}

func TestSlugsSorted(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()
	for _, slug := range []string{"zebra", "alpha", "middle"} {
		if err := reg.Upsert(ctx, slug, func(r *registry.Record) { r.Image = "/" + slug }); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	got := reg.Slugs()
	want := []string{"alpha", "middle", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slugs() = %v, want %v", got, want)
		}
	}
}
