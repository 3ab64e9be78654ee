package mockups

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"dreamart/internal/config"
	"dreamart/internal/imageops"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/services"
	"dreamart/internal/sku"
)

// Generator composites processed artwork onto template backgrounds.
type Generator struct {
	cfg       *config.Config
	processor *imageops.Processor
	logger    *slog.Logger
}

// NewGenerator builds a Generator. A nil logger is replaced with a no-op
// logger.
func NewGenerator(cfg *config.Config, processor *imageops.Processor, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:       cfg,
		processor: processor,
		logger:    logging.NewComponentLogger(logger, "mockups"),
	}
}

// Generate renders up to nine numbered mockups for the processed artwork
// identified by slug, plus a thumbnail per mockup under THUMBS. Templates are
// taken in sorted order; a template whose dimensions do not match the
// artwork's is skipped with a warning, and a slot whose mockup file already
// exists is left untouched. Callers wanting a fresh render remove the
// existing files first.
//
// The returned paths are the mockups present after the run, in slot order.
func (g *Generator) Generate(ctx context.Context, slug string) ([]string, error) {
	skuID, err := g.findSKU(slug)
	if err != nil {
		return nil, err
	}
	paths := layout.ForProcessed(g.cfg, slug, skuID)
	if !exists(paths.Main) {
		return nil, services.Wrap(services.ErrNotFound, "mockups", "generate", fmt.Sprintf("processed artwork %s not found", paths.Main), nil)
	}

	artwork, err := g.processor.Decode(paths.Main)
	if err != nil {
		return nil, err
	}
	artBounds := artwork.Bounds()

	templates, err := g.listTemplates()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(paths.ThumbsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbs dir: %w", err)
	}

	var produced []string
	for i, templatePath := range templates {
		if err := ctx.Err(); err != nil {
			return produced, err
		}
		slot := i + 1
		mockupPath := paths.Mockup(slug, skuID, slot)
		thumbPath := paths.MockupThumb(slug, skuID, slot)

		if exists(mockupPath) {
			g.logger.Info("mockup already present, skipping slot",
				logging.String(logging.FieldSlug, slug),
				logging.Int("slot", slot),
			)
			produced = append(produced, mockupPath)
			continue
		}

		template, err := imaging.Open(templatePath)
		if err != nil {
			g.logger.Warn("unreadable template, skipping slot",
				logging.String("template", templatePath),
				logging.Int("slot", slot),
				logging.Error(err),
			)
			continue
		}
		if template.Bounds().Dx() != artBounds.Dx() || template.Bounds().Dy() != artBounds.Dy() {
			g.logger.Warn("template dimensions do not match artwork, skipping slot",
				logging.String("template", templatePath),
				logging.Int("slot", slot),
				logging.Int("template_width", template.Bounds().Dx()),
				logging.Int("template_height", template.Bounds().Dy()),
				logging.Int("artwork_width", artBounds.Dx()),
				logging.Int("artwork_height", artBounds.Dy()),
			)
			continue
		}

		composite := imaging.Overlay(template, artwork, image.Pt(0, 0), 1.0)
		if err := imageops.SaveAtomic(mockupPath, composite, g.cfg.Imaging.QualityStart); err != nil {
			return produced, fmt.Errorf("write mockup %d: %w", slot, err)
		}
		thumb := imageops.FitLongEdge(composite, g.cfg.Imaging.ThumbLongEdge)
		if err := imageops.SaveAtomic(thumbPath, thumb, g.cfg.Imaging.QualityStart); err != nil {
			return produced, fmt.Errorf("write mockup thumbnail %d: %w", slot, err)
		}

		g.logger.Info("mockup written",
			logging.String(logging.FieldSlug, slug),
			logging.String(logging.FieldSKU, skuID),
			logging.Int("slot", slot),
		)
		produced = append(produced, mockupPath)
	}
	return produced, nil
}

// findSKU locates the artwork's SKU by scanning the processed folder's
// filenames, first match wins.
func (g *Generator) findSKU(slug string) (string, error) {
	dir := filepath.Join(g.cfg.Paths.ProcessedDir, slug)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "mockups", "generate", fmt.Sprintf("processed folder for %s not found", slug), err)
	}
	pattern := sku.Pattern(g.cfg.SKU.Prefix)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if id, ok := sku.Extract(pattern, name); ok {
			return id, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "mockups", "generate", fmt.Sprintf("no SKU found in processed folder for %s", slug), nil)
}

// listTemplates returns the first nine template image paths in sorted order.
func (g *Generator) listTemplates() ([]string, error) {
	entries, err := os.ReadDir(g.cfg.Paths.TemplatesDir)
	if err != nil {
		return nil, services.Wrap(services.ErrPrerequisite, "mockups", "generate", "template directory unavailable", err)
	}
	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			templates = append(templates, filepath.Join(g.cfg.Paths.TemplatesDir, entry.Name()))
		}
	}
	sort.Strings(templates)
	if len(templates) > layout.MockupCount {
		templates = templates[:layout.MockupCount]
	}
	return templates, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
