package integrity

import (
	"context"
	"fmt"
	"sort"

	"dreamart/internal/catalog"
	"dreamart/internal/registry"
)

// Reconcile compares the catalog against the directory tree and the registry
// and reports every divergence: catalog paths that no longer exist on disk,
// registry slugs without a catalog record, and catalog slugs missing from
// the registry. Like Validate it is read-only.
func (v *Validator) Reconcile(ctx context.Context, store *catalog.Store, reg *registry.Registry) ([]string, error) {
	records, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	index := reg.Load()

	var problems []string
	catalogSlugs := make(map[string]bool, len(records))
	for _, art := range records {
		catalogSlugs[art.Slug] = true
		for _, ref := range []struct {
			what string
			path string
		}{
			{"image", art.Paths.Image},
			{"THUMB derivative", art.Paths.Thumb},
			{"ANALYSE derivative", art.Paths.Analyse},
			{"QC JSON", art.Paths.QC},
			{"analysis JSON", art.Paths.Analysis},
			{"auxiliary image", art.Paths.Auxiliary},
			{"preview", art.Paths.Preview},
		} {
			if ref.path != "" && !fileExists(ref.path) {
				problems = append(problems, fmt.Sprintf("Catalog record %s points at missing %s %s", art.Slug, ref.what, ref.path))
			}
		}
		for i, mockup := range art.Paths.Mockups {
			if mockup != "" && !fileExists(mockup) {
				problems = append(problems, fmt.Sprintf("Catalog record %s points at missing mockup %d %s", art.Slug, i+1, mockup))
			}
		}
		if _, ok := index[art.Slug]; !ok {
			problems = append(problems, fmt.Sprintf("Catalog record %s has no registry entry", art.Slug))
		}
	}
	orphans := make([]string, 0, len(index))
	for slug := range index {
		if !catalogSlugs[slug] {
			orphans = append(orphans, slug)
		}
	}
	sort.Strings(orphans)
	for _, slug := range orphans {
		problems = append(problems, fmt.Sprintf("Registry entry %s has no catalog record", slug))
	}
	return problems, nil
}
