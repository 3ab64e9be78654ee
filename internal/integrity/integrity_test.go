package integrity_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/integrity"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/registry"
	"dreamart/internal/testsupport"
)

func newValidator(t *testing.T) (*config.Config, *integrity.Validator) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.MarkerFile(), 16)
	return cfg, integrity.New(cfg, logging.NewNop())
}

func seedUnanalysedUnit(t *testing.T, cfg *config.Config, slug, sku string) layout.Unanalysed {
	t.Helper()
	paths := layout.ForUnanalysed(cfg, slug, sku, ".jpg")
	testsupport.WriteJPEG(t, paths.Original, 32, 24)
	testsupport.WriteJPEG(t, paths.Thumb, 16, 12)
	testsupport.WriteJPEG(t, paths.Analyse, 32, 24)
	testsupport.WriteFile(t, paths.QC, 32)
	return paths
}

func seedProcessedUnit(t *testing.T, cfg *config.Config, slug, sku string) layout.Processed {
	t.Helper()
	paths := layout.ForProcessed(cfg, slug, sku)
	testsupport.WriteJPEG(t, paths.Main, 32, 24)
	testsupport.WriteJPEG(t, paths.Thumb, 16, 12)
	testsupport.WriteJPEG(t, paths.Analyse, 32, 24)
	testsupport.WriteFile(t, paths.QC, 32)
	testsupport.WriteFile(t, paths.FinalJSON, 32)
	for n := 1; n <= layout.MockupCount; n++ {
		testsupport.WriteJPEG(t, paths.Mockup(slug, sku, n), 32, 24)
		testsupport.WriteJPEG(t, paths.MockupThumb(slug, sku, n), 16, 12)
	}
	return paths
}

func hasProblemContaining(problems []string, substr string) bool {
	for _, problem := range problems {
		if strings.Contains(problem, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanTreeReturnsEmpty(t *testing.T) {
	cfg, validator := newValidator(t)
	seedUnanalysedUnit(t, cfg, "dawn", "RJC-00001")
	seedProcessedUnit(t, cfg, "dusk", "RJC-00002")

	problems := validator.Validate()
	if len(problems) != 0 {
		t.Fatalf("expected clean tree, got %v", problems)
	}
}

func TestValidateRequiresProjectMarker(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := integrity.New(cfg, logging.NewNop())

	problems := validator.Validate()
	if len(problems) != 1 || !strings.Contains(problems[0], "marker") {
		t.Fatalf("expected single marker problem, got %v", problems)
	}
}

func TestValidateMissingMarkerStillAuditsStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := integrity.New(cfg, logging.NewNop())
	paths := seedProcessedUnit(t, cfg, "dusk", "RJC-00002")
	if err := os.Remove(paths.FinalJSON); err != nil {
		t.Fatalf("remove final json: %v", err)
	}

	problems := validator.Validate()
	if len(problems) != 2 {
		t.Fatalf("expected marker and Final JSON problems, got %v", problems)
	}
	if !strings.Contains(problems[0], "marker") {
		t.Fatalf("marker problem should come first, got %v", problems)
	}
	if !strings.Contains(problems[1], "Final JSON") {
		t.Fatalf("stage audits should run without the marker, got %v", problems)
	}
}

func TestValidateReportsMissingThumb(t *testing.T) {
	cfg, validator := newValidator(t)
	paths := seedUnanalysedUnit(t, cfg, "dawn", "RJC-00001")
	if err := os.Remove(paths.Thumb); err != nil {
		t.Fatalf("remove thumb: %v", err)
	}

	problems := validator.Validate()
	if !hasProblemContaining(problems, "THUMB") {
		t.Fatalf("expected a THUMB problem, got %v", problems)
	}
}

func TestValidateReportsMissingFinalJSON(t *testing.T) {
	cfg, validator := newValidator(t)
	paths := seedProcessedUnit(t, cfg, "dusk", "RJC-00002")
	if err := os.Remove(paths.FinalJSON); err != nil {
		t.Fatalf("remove final json: %v", err)
	}

	problems := validator.Validate()
	if !hasProblemContaining(problems, "Final JSON") {
		t.Fatalf("expected a Final JSON problem, got %v", problems)
	}
}

func TestValidateReportsNoSKUAndSkipsFolder(t *testing.T) {
	cfg, validator := newValidator(t)
	testsupport.WriteJPEG(t, filepath.Join(cfg.Paths.ProcessedDir, "anonymous", "anonymous.jpg"), 32, 24)

	problems := validator.Validate()
	if len(problems) != 1 || !strings.Contains(problems[0], "No SKU found") {
		t.Fatalf("expected a single no-SKU problem, got %v", problems)
	}
}

func TestValidateReportsMockupCountMismatch(t *testing.T) {
	cfg, validator := newValidator(t)
	paths := seedProcessedUnit(t, cfg, "dusk", "RJC-00002")
	if err := os.Remove(paths.Mockup("dusk", "RJC-00002", 9)); err != nil {
		t.Fatalf("remove mockup: %v", err)
	}

	problems := validator.Validate()
	if !hasProblemContaining(problems, "found 8") {
		t.Fatalf("expected mockup count mismatch, got %v", problems)
	}
}

func TestValidateReportsAllProblemsNotJustFirst(t *testing.T) {
	cfg, validator := newValidator(t)
	paths := seedProcessedUnit(t, cfg, "dusk", "RJC-00002")
	for _, path := range []string{paths.Thumb, paths.FinalJSON, paths.QC} {
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove %s: %v", path, err)
		}
	}

	problems := validator.Validate()
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}
}

func TestValidateOrdersUnanalysedBeforeProcessed(t *testing.T) {
	cfg, validator := newValidator(t)
	unanalysed := seedUnanalysedUnit(t, cfg, "dawn", "RJC-00001")
	processed := seedProcessedUnit(t, cfg, "dusk", "RJC-00002")
	if err := os.Remove(unanalysed.QC); err != nil {
		t.Fatalf("remove qc: %v", err)
	}
	if err := os.Remove(processed.FinalJSON); err != nil {
		t.Fatalf("remove final json: %v", err)
	}

	problems := validator.Validate()
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
	if !strings.Contains(problems[0], "QC JSON") || !strings.Contains(problems[1], "Final JSON") {
		t.Fatalf("problems out of order: %v", problems)
	}
}

func TestCheckUnanalysedLegacyFlatLayout(t *testing.T) {
	cfg, validator := newValidator(t)
	dir := cfg.Paths.UnanalysedDir
	testsupport.WriteJPEG(t, filepath.Join(dir, "dawn-RJC-00003.jpg"), 32, 24)
	testsupport.WriteJPEG(t, filepath.Join(dir, "dawn-RJC-00003-THUMB.jpg"), 16, 12)
	testsupport.WriteFile(t, filepath.Join(dir, "RJC-00003-QC.json"), 32)

	problems := validator.CheckUnanalysed(dir)
	if len(problems) != 1 || !strings.Contains(problems[0], "ANALYSE") {
		t.Fatalf("expected only a missing ANALYSE problem, got %v", problems)
	}
}

func TestReconcileReportsDivergence(t *testing.T) {
	cfg, validator := newValidator(t)
	ctx := context.Background()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer store.Close()
	reg := registry.New(cfg.Paths.RegistryFile, logging.NewNop())

	missing := filepath.Join(cfg.Paths.ProcessedDir, "ghost", "ghost-RJC-00004.jpg")
	if err := store.Upsert(ctx, &catalog.Artwork{
		Slug:  "ghost",
		SKU:   "RJC-00004",
		Stage: catalog.StageProcessed,
		Paths: catalog.Paths{Image: missing},
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := reg.Upsert(ctx, "stray", func(rec *registry.Record) {
		rec.Status = "finalised"
	}); err != nil {
		t.Fatalf("registry Upsert failed: %v", err)
	}

	problems, err := validator.Reconcile(ctx, store, reg)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if !hasProblemContaining(problems, "missing image") {
		t.Errorf("expected missing-image problem, got %v", problems)
	}
	if !hasProblemContaining(problems, "ghost has no registry entry") {
		t.Errorf("expected missing registry entry problem, got %v", problems)
	}
	if !hasProblemContaining(problems, "stray has no catalog record") {
		t.Errorf("expected orphan registry problem, got %v", problems)
	}
}
