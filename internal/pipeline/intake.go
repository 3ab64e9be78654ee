package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dreamart/internal/catalog"
	"dreamart/internal/fileutil"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/registry"
	"dreamart/internal/services"
	"dreamart/internal/slugs"
)

// Intake admits an uploaded file into the unanalysed stage: the slug is
// derived from the filename, a fresh SKU is assigned, and the THUMB/ANALYSE
// derivative pair plus QC metadata are generated alongside the original.
// Collisions on the slug directory resolve by numeric suffixing so two
// uploads never share a folder.
func (p *Pipeline) Intake(ctx context.Context, sourcePath string) (*catalog.Artwork, error) {
	const op = "intake"

	ext, ok := allowedExtension(filepath.Ext(sourcePath))
	if !ok {
		return nil, services.Wrap(services.ErrInvalidInput, "pipeline", op,
			fmt.Sprintf("unsupported file type %q, expected jpg or png", filepath.Ext(sourcePath)), nil)
	}
	if !fileutil.Exists(sourcePath) {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", op,
			fmt.Sprintf("upload %s not found", sourcePath), nil)
	}

	originalName := filepath.Base(sourcePath)
	slug := slugs.Sanitize(strings.TrimSuffix(originalName, filepath.Ext(originalName)))

	dir := filepath.Join(p.cfg.Paths.UnanalysedDir, slug)
	if fileutil.Exists(dir) {
		dir = slugs.UniquePath(p.cfg.Paths.UnanalysedDir, slug)
		slug = filepath.Base(dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artwork folder: %w", err)
	}

	skuID, err := p.allocator.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign sku: %w", err)
	}

	paths := layout.ForUnanalysed(p.cfg, slug, skuID, ext)
	if err := fileutil.CopyFile(sourcePath, paths.Original); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if _, err := p.processor.Derivatives(paths.Original, paths.Thumb, paths.Analyse, paths.QC); err != nil {
		return nil, err
	}

	art := &catalog.Artwork{
		Slug:             slug,
		SKU:              skuID,
		Stage:            catalog.StageUnanalysed,
		OriginalFilename: originalName,
		Paths: catalog.Paths{
			Image:   paths.Original,
			Thumb:   paths.Thumb,
			Analyse: paths.Analyse,
			QC:      paths.QC,
		},
	}
	if err := p.store.Upsert(ctx, art); err != nil {
		return nil, fmt.Errorf("record artwork: %w", err)
	}
	if err := p.registry.Upsert(ctx, slug, func(rec *registry.Record) {
		rec.Image = paths.Original
	}); err != nil {
		return nil, fmt.Errorf("register artwork: %w", err)
	}

	p.logger.Info("artwork admitted",
		logging.String(logging.FieldSlug, slug),
		logging.String(logging.FieldSKU, skuID),
		logging.String(logging.FieldStage, string(catalog.StageUnanalysed)),
		logging.String("original", originalName),
	)
	return art, nil
}
