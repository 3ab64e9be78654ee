package mockups_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dreamart/internal/config"
	"dreamart/internal/imageops"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/mockups"
	"dreamart/internal/services"
	"dreamart/internal/testsupport"
)

const (
	testSlug = "harbour-dawn"
	testSKU  = "RJC-00042"
)

func newGenerator(t *testing.T, cfg *config.Config) *mockups.Generator {
	t.Helper()
	processor := imageops.NewProcessor(cfg.Imaging, logging.NewNop())
	return mockups.NewGenerator(cfg, processor, logging.NewNop())
}

func seedProcessedArtwork(t *testing.T, cfg *config.Config, width, height int) layout.Processed {
	t.Helper()
	paths := layout.ForProcessed(cfg, testSlug, testSKU)
	testsupport.WriteJPEG(t, paths.Main, width, height)
	return paths
}

func seedTemplates(t *testing.T, cfg *config.Config, count, width, height int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		name := fmt.Sprintf("template-%02d.jpg", i)
		testsupport.WriteJPEG(t, filepath.Join(cfg.Paths.TemplatesDir, name), width, height)
	}
}

func TestGenerateProducesNineMockupsAndThumbnails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	paths := seedProcessedArtwork(t, cfg, 64, 48)
	seedTemplates(t, cfg, 9, 64, 48)

	produced, err := newGenerator(t, cfg).Generate(context.Background(), testSlug)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(produced) != 9 {
		t.Fatalf("expected 9 mockups, got %d", len(produced))
	}
	for n := 1; n <= 9; n++ {
		if _, err := os.Stat(paths.Mockup(testSlug, testSKU, n)); err != nil {
			t.Errorf("mockup %d missing: %v", n, err)
		}
		if _, err := os.Stat(paths.MockupThumb(testSlug, testSKU, n)); err != nil {
			t.Errorf("mockup thumbnail %d missing: %v", n, err)
		}
	}
}

func TestGenerateIsIdempotentPerSlot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	paths := seedProcessedArtwork(t, cfg, 64, 48)
	seedTemplates(t, cfg, 9, 64, 48)
	gen := newGenerator(t, cfg)

	if _, err := gen.Generate(context.Background(), testSlug); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	var before []os.FileInfo
	for n := 1; n <= 9; n++ {
		info, err := os.Stat(paths.Mockup(testSlug, testSKU, n))
		if err != nil {
			t.Fatalf("stat mockup %d: %v", n, err)
		}
		before = append(before, info)
	}

	produced, err := gen.Generate(context.Background(), testSlug)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if len(produced) != 9 {
		t.Fatalf("expected 9 mockups on re-run, got %d", len(produced))
	}
	for n := 1; n <= 9; n++ {
		info, err := os.Stat(paths.Mockup(testSlug, testSKU, n))
		if err != nil {
			t.Fatalf("stat mockup %d after re-run: %v", n, err)
		}
		if !info.ModTime().Equal(before[n-1].ModTime()) {
			t.Errorf("mockup %d was rewritten on re-run", n)
		}
	}
}

func TestGenerateSkipsMismatchedTemplates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	paths := seedProcessedArtwork(t, cfg, 64, 48)
	seedTemplates(t, cfg, 8, 64, 48)
	// Sorts first, so slot 1 is the mismatched template.
	testsupport.WriteJPEG(t, filepath.Join(cfg.Paths.TemplatesDir, "aaa-mismatch.jpg"), 10, 10)

	produced, err := newGenerator(t, cfg).Generate(context.Background(), testSlug)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(produced) != 8 {
		t.Fatalf("expected 8 mockups with one mismatch, got %d", len(produced))
	}
	if _, err := os.Stat(paths.Mockup(testSlug, testSKU, 1)); !os.IsNotExist(err) {
		t.Error("mismatched slot 1 should not have been written")
	}
	if _, err := os.Stat(paths.Mockup(testSlug, testSKU, 2)); err != nil {
		t.Errorf("slot 2 should have been written: %v", err)
	}
}

func TestGenerateRequiresProcessedArtwork(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedTemplates(t, cfg, 9, 64, 48)

	_, err := newGenerator(t, cfg).Generate(context.Background(), "no-such-slug")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGenerateRequiresSKUInFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedTemplates(t, cfg, 9, 64, 48)
	dir := filepath.Join(cfg.Paths.ProcessedDir, "anonymous")
	testsupport.WriteJPEG(t, filepath.Join(dir, "anonymous.jpg"), 64, 48)

	_, err := newGenerator(t, cfg).Generate(context.Background(), "anonymous")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error for folder without SKU, got %v", err)
	}
}
