package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dreamart/internal/analysis"
	"dreamart/internal/catalog"
	"dreamart/internal/fileutil"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/registry"
	"dreamart/internal/services"
	"dreamart/internal/slugs"
	"dreamart/internal/sku"
)

// Analyze moves an artwork from the unanalysed to the processed stage. The
// filename names the analyse derivative inside the unanalysed root; it is
// renamed (not copied) into the processed folder as the stage's main image,
// the derivative pair and QC metadata are regenerated from it, and the
// analysis provider produces the analysis JSON plus an auxiliary image. Any
// provider failure falls back to deterministic mock analysis rather than
// failing the transition. Catalog and registry are updated last.
func (p *Pipeline) Analyze(ctx context.Context, filename string) (*catalog.Artwork, error) {
	const op = "analyze"

	source, err := p.resolveUnanalysed(filename)
	if err != nil {
		return nil, err
	}

	// Folder layout: the slug is the artwork folder's name. Legacy flat
	// layout: the slug is derived from the filename itself.
	slug := slugs.FromFilename(source)
	if parent := filepath.Dir(source); parent != filepath.Clean(p.cfg.Paths.UnanalysedDir) {
		slug = filepath.Base(parent)
	}
	skuID, ok := sku.Extract(p.pattern, filepath.Base(source))
	if !ok {
		skuID, ok = p.lookupSKU(ctx, slug)
		if !ok {
			return nil, services.Wrap(services.ErrNotFound, "pipeline", op,
				fmt.Sprintf("no SKU known for %s", slug), nil)
		}
	}

	paths := layout.ForProcessed(p.cfg, slug, skuID)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create processed folder: %w", err)
	}
	if err := fileutil.MoveFile(source, paths.Main); err != nil {
		return nil, fmt.Errorf("move artwork to processed: %w", err)
	}
	if _, err := p.processor.Derivatives(paths.Main, paths.Thumb, paths.Analyse, paths.QC); err != nil {
		return nil, err
	}

	result := p.runAnalysis(ctx, slug, paths.Main)
	if err := fileutil.WriteJSONAtomic(paths.FinalJSON, result); err != nil {
		return nil, fmt.Errorf("write analysis json: %w", err)
	}
	if err := fileutil.WriteFileAtomic(paths.Auxiliary, result.ImageBytes, 0o644); err != nil {
		return nil, fmt.Errorf("write auxiliary image: %w", err)
	}

	art, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load artwork record: %w", err)
	}
	if art == nil {
		art = &catalog.Artwork{Slug: slug, SKU: skuID}
	}
	art.Stage = catalog.StageProcessed
	art.Paths.Image = paths.Main
	art.Paths.Thumb = paths.Thumb
	art.Paths.Analyse = paths.Analyse
	art.Paths.QC = paths.QC
	art.Paths.Analysis = paths.FinalJSON
	art.Paths.Auxiliary = paths.Auxiliary
	if err := p.store.Upsert(ctx, art); err != nil {
		return nil, fmt.Errorf("record transition: %w", err)
	}
	if err := p.registry.Upsert(ctx, slug, func(rec *registry.Record) {
		rec.Image = paths.Main
		rec.Analysis = paths.FinalJSON
		rec.Auxiliary = paths.Auxiliary
	}); err != nil {
		return nil, fmt.Errorf("register transition: %w", err)
	}

	p.logger.Info("artwork processed",
		logging.String(logging.FieldSlug, slug),
		logging.String(logging.FieldSKU, skuID),
		logging.String(logging.FieldStage, string(catalog.StageProcessed)),
		logging.String("provider", result.Provider),
	)
	return art, nil
}

// resolveUnanalysed locates filename under the unanalysed root, rejecting
// any path whose resolved form escapes it.
func (p *Pipeline) resolveUnanalysed(filename string) (string, error) {
	const op = "analyze"

	candidate := filename
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(p.cfg.Paths.UnanalysedDir, filename)
	}
	if !within(p.cfg.Paths.UnanalysedDir, candidate) {
		return "", services.Wrap(services.ErrInvalidInput, "pipeline", op,
			fmt.Sprintf("%s is out of scope for the unanalysed root", filename), nil)
	}
	if fileutil.Exists(candidate) {
		return candidate, nil
	}

	// Folder layout: the file sits inside one of the slug directories.
	base := filepath.Base(filename)
	entries, err := os.ReadDir(p.cfg.Paths.UnanalysedDir)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			nested := filepath.Join(p.cfg.Paths.UnanalysedDir, entry.Name(), base)
			if fileutil.Exists(nested) {
				if !within(p.cfg.Paths.UnanalysedDir, nested) {
					return "", services.Wrap(services.ErrInvalidInput, "pipeline", op,
						fmt.Sprintf("%s is out of scope for the unanalysed root", filename), nil)
				}
				return nested, nil
			}
		}
	}
	return "", services.Wrap(services.ErrNotFound, "pipeline", op,
		fmt.Sprintf("%s not found under the unanalysed root", filename), nil)
}

// lookupSKU recovers a slug's SKU from the catalog, then from the filenames
// in its unanalysed folder.
func (p *Pipeline) lookupSKU(ctx context.Context, slug string) (string, bool) {
	if art, err := p.store.GetBySlug(ctx, slug); err == nil && art != nil && art.SKU != "" {
		return art.SKU, true
	}
	entries, err := os.ReadDir(filepath.Join(p.cfg.Paths.UnanalysedDir, slug))
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if id, ok := sku.Extract(p.pattern, entry.Name()); ok {
			return id, true
		}
	}
	return "", false
}

// runAnalysis invokes the configured provider and downgrades every failure
// to the mock fallback.
func (p *Pipeline) runAnalysis(ctx context.Context, slug, imagePath string) analysis.Result {
	req := analysis.Request{Slug: slug, ImagePath: imagePath}
	result, err := p.provider.Analyze(ctx, req)
	if err == nil {
		return result
	}
	p.logger.Warn("analysis provider failed, falling back to mock",
		logging.String(logging.FieldSlug, slug),
		logging.String("provider", p.provider.Name()),
		logging.Error(err),
	)
	result, err = analysis.MockProvider{}.Analyze(ctx, req)
	if err != nil {
		// The source was just written by this transition; an unreadable
		// source here means the filesystem is failing underneath us.
		p.logger.Error("mock analysis failed",
			logging.String(logging.FieldSlug, slug),
			logging.Error(err),
		)
		return analysis.Result{Provider: "mock", Notes: "analysis unavailable"}
	}
	return result
}
