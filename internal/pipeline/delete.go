package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dreamart/internal/logging"
	"dreamart/internal/services"
)

// Delete removes an artwork's directory trees from every stage and purges
// its registry entry and catalog record. The SKU is retired with it; the
// allocator never reissues it. Deleting an unknown slug is an error so typos
// do not silently succeed.
func (p *Pipeline) Delete(ctx context.Context, slug string) error {
	const op = "delete"

	dirs := []string{
		filepath.Join(p.cfg.Paths.UnanalysedDir, slug),
		filepath.Join(p.cfg.Paths.ProcessedDir, slug),
		filepath.Join(p.cfg.Paths.FinalisedDir, slug),
	}
	removed := false
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
		removed = true
	}

	_, known := p.registry.Get(slug)
	art, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("load artwork record: %w", err)
	}
	if !removed && !known && art == nil {
		return services.Wrap(services.ErrNotFound, "pipeline", op,
			fmt.Sprintf("no artwork known as %s", slug), nil)
	}

	if err := p.registry.Remove(ctx, slug); err != nil {
		return fmt.Errorf("purge registry entry: %w", err)
	}
	if _, err := p.store.Delete(ctx, slug); err != nil {
		return fmt.Errorf("purge catalog record: %w", err)
	}

	p.logger.Info("artwork deleted",
		logging.String(logging.FieldSlug, slug),
	)
	return nil
}
