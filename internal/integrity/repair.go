package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"

	"dreamart/internal/config"
	"dreamart/internal/imageops"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/services"
	"dreamart/internal/sku"
)

// Repairer fixes orphaned artwork units in the unanalysed stage: folders
// whose filenames carry no SKU, typically from files dropped into the tree
// by hand. Repairing assigns a SKU and regenerates the derivative set.
type Repairer struct {
	cfg       *config.Config
	allocator *sku.Allocator
	processor *imageops.Processor
	logger    *slog.Logger
	pattern   *regexp.Regexp
}

// NewRepairer builds a Repairer. A nil logger is replaced with a no-op
// logger.
func NewRepairer(cfg *config.Config, allocator *sku.Allocator, processor *imageops.Processor, logger *slog.Logger) *Repairer {
	return &Repairer{
		cfg:       cfg,
		allocator: allocator,
		processor: processor,
		logger:    logging.NewComponentLogger(logger, "repair"),
		pattern:   sku.Pattern(cfg.SKU.Prefix),
	}
}

// ScanOrphans returns the slugs of unanalysed folders containing no
// SKU-bearing filename, in sorted order.
func (r *Repairer) ScanOrphans() ([]string, error) {
	entries, err := listNames(r.cfg.Paths.UnanalysedDir)
	if err != nil {
		return nil, fmt.Errorf("read unanalysed dir: %w", err)
	}

	var orphans []string
	for _, name := range entries {
		dir := filepath.Join(r.cfg.Paths.UnanalysedDir, name)
		names, err := listNames(dir)
		if err != nil {
			// Flat files are not folder units.
			continue
		}
		if !anyMatch(names, isBaseImage) {
			continue
		}
		if _, ok := firstSKU(r.pattern, names); !ok {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

// Repair assigns skuID to the orphaned unanalysed folder for slug and
// regenerates the THUMB/ANALYSE derivatives and QC metadata. An empty skuID
// allocates the next sequential one.
func (r *Repairer) Repair(ctx context.Context, slug, skuID string) (string, error) {
	const op = "repair"

	dir := filepath.Join(r.cfg.Paths.UnanalysedDir, slug)
	names, err := listNames(dir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "integrity", op,
			fmt.Sprintf("unanalysed folder for %s not found", slug), err)
	}
	if existing, ok := firstSKU(r.pattern, names); ok {
		return "", services.Wrap(services.ErrInvalidInput, "integrity", op,
			fmt.Sprintf("%s already carries SKU %s", slug, existing), nil)
	}

	var original string
	for _, name := range names {
		if isBaseImage(name) {
			original = filepath.Join(dir, name)
			break
		}
	}
	if original == "" {
		return "", services.Wrap(services.ErrNotFound, "integrity", op,
			fmt.Sprintf("no original image in folder for %s", slug), nil)
	}

	if skuID == "" {
		skuID, err = r.allocator.Next(ctx)
		if err != nil {
			return "", fmt.Errorf("assign sku: %w", err)
		}
	} else if !r.pattern.MatchString(skuID) {
		return "", services.Wrap(services.ErrInvalidInput, "integrity", op,
			fmt.Sprintf("%q is not a valid SKU", skuID), nil)
	}

	paths := layout.ForUnanalysed(r.cfg, slug, skuID, filepath.Ext(original))
	if _, err := r.processor.Derivatives(original, paths.Thumb, paths.Analyse, paths.QC); err != nil {
		return "", err
	}

	r.logger.Info("orphan repaired",
		logging.String(logging.FieldSlug, slug),
		logging.String(logging.FieldSKU, skuID),
	)
	return skuID, nil
}
