package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dreamart/internal/catalog"
	"dreamart/internal/fileutil"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/registry"
	"dreamart/internal/services"
	"dreamart/internal/sku"
)

// Metadata carries the free-text listing fields attached at finalisation.
type Metadata struct {
	Title           string
	Description     string
	PrimaryColour   string
	SecondaryColour string
}

// Finalise moves an artwork from the processed to the finalised stage. The
// preflight requires the processed main image and all nine mockups; the
// first missing artifact fails the transition by name before anything is
// written, so a failed finalise leaves the finalised tree untouched. On
// success the main image is copy-verified into the finalised folder, the
// mockups are copied alongside it, a byte-capped preview is generated
// (skipped when already present), and catalog and registry pick up the
// preview path, mockup paths, metadata, and the finalised status.
func (p *Pipeline) Finalise(ctx context.Context, slug string, meta Metadata) (*catalog.Artwork, error) {
	const op = "finalise"

	skuID, err := p.processedSKU(ctx, slug)
	if err != nil {
		return nil, err
	}
	processed := layout.ForProcessed(p.cfg, slug, skuID)

	if !fileutil.Exists(processed.Main) {
		return nil, services.Wrap(services.ErrPrerequisite, "pipeline", op,
			fmt.Sprintf("missing processed artwork %s", filepath.Base(processed.Main)), nil)
	}
	for n := 1; n <= layout.MockupCount; n++ {
		mockup := processed.Mockup(slug, skuID, n)
		if !fileutil.Exists(mockup) {
			return nil, services.Wrap(services.ErrPrerequisite, "pipeline", op,
				fmt.Sprintf("missing mockup %s", filepath.Base(mockup)), nil)
		}
	}

	finalised := layout.ForFinalised(p.cfg, slug, skuID)
	if err := os.MkdirAll(finalised.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create finalised folder: %w", err)
	}
	if err := fileutil.CopyVerified(processed.Main, finalised.Main); err != nil {
		return nil, fmt.Errorf("copy artwork to finalised: %w", err)
	}

	mockupPaths := make([]string, 0, layout.MockupCount)
	for n := 1; n <= layout.MockupCount; n++ {
		dst := finalised.FinalisedMockup(slug, skuID, n)
		if err := fileutil.CopyFile(processed.Mockup(slug, skuID, n), dst); err != nil {
			return nil, fmt.Errorf("copy mockup %d: %w", n, err)
		}
		mockupPaths = append(mockupPaths, dst)
	}

	if !fileutil.Exists(finalised.Preview) {
		if err := p.processor.EncodePreview(finalised.Main, finalised.Preview); err != nil {
			return nil, fmt.Errorf("encode preview: %w", err)
		}
	}

	art, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load artwork record: %w", err)
	}
	if art == nil {
		art = &catalog.Artwork{Slug: slug, SKU: skuID}
	}
	art.Stage = catalog.StageFinalised
	art.Paths.Image = finalised.Main
	art.Paths.Preview = finalised.Preview
	art.Paths.Mockups = mockupPaths
	art.Title = meta.Title
	art.Description = meta.Description
	art.PrimaryColour = meta.PrimaryColour
	art.SecondaryColour = meta.SecondaryColour
	if err := p.store.Upsert(ctx, art); err != nil {
		return nil, fmt.Errorf("record transition: %w", err)
	}
	if err := p.registry.Upsert(ctx, slug, func(rec *registry.Record) {
		rec.Image = finalised.Main
		rec.Preview = finalised.Preview
		rec.Mockups = mockupPaths
		rec.Title = meta.Title
		rec.Description = meta.Description
		rec.PrimaryColour = meta.PrimaryColour
		rec.SecondaryColour = meta.SecondaryColour
		rec.Status = string(catalog.StageFinalised)
	}); err != nil {
		return nil, fmt.Errorf("register transition: %w", err)
	}

	p.logger.Info("artwork finalised",
		logging.String(logging.FieldSlug, slug),
		logging.String(logging.FieldSKU, skuID),
		logging.String(logging.FieldStage, string(catalog.StageFinalised)),
	)
	return art, nil
}

// processedSKU recovers the SKU for a slug in the processed stage, first
// from the catalog and then by scanning the processed folder's filenames.
func (p *Pipeline) processedSKU(ctx context.Context, slug string) (string, error) {
	if art, err := p.store.GetBySlug(ctx, slug); err == nil && art != nil && art.SKU != "" {
		return art.SKU, nil
	}
	entries, err := os.ReadDir(filepath.Join(p.cfg.Paths.ProcessedDir, slug))
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "pipeline", "finalise",
			fmt.Sprintf("processed folder for %s not found", slug), err)
	}
	for _, entry := range entries {
		if id, ok := sku.Extract(p.pattern, entry.Name()); ok {
			return id, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "pipeline", "finalise",
		fmt.Sprintf("no SKU found for %s", slug), nil)
}
