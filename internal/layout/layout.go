// Package layout centralizes the canonical file and directory names of the
// stage tree. Every component that touches the tree goes through these
// helpers so the naming scheme lives in exactly one place.
//
// Canonical names:
//
//	unanalysed/<slug>/   <slug><ext>, <SKU>-THUMB<ext>, <SKU>-ANALYSE<ext>, <SKU>-QC.json
//	processed/<slug>/    <slug>-<SKU>.jpg, -THUMB, -ANALYSE, <SKU>-QC.json,
//	                     <SKU>-FINAL.json, <slug>-<SKU>-AUX.jpg,
//	                     <slug>-<SKU>-MU-01..09.jpg, THUMBS/<...>-MU-0N-THUMB.jpg
//	finalised/<slug>/    <slug>-<SKU>.jpg, <slug>-<SKU>-PREVIEW.jpg, mockup copies
package layout

import (
	"fmt"
	"path/filepath"

	"dreamart/internal/config"
)

// MockupCount is the number of mockup slots per artwork.
const MockupCount = 9

// ThumbsDirName is the mockup-thumbnail sub-folder inside a processed
// artwork directory.
const ThumbsDirName = "THUMBS"

// Unanalysed holds the artifact paths of one artwork in the unanalysed stage.
type Unanalysed struct {
	Dir      string
	Original string
	Thumb    string
	Analyse  string
	QC       string
}

// ForUnanalysed resolves the unanalysed-stage paths for a slug, SKU, and the
// original file extension (including the dot).
func ForUnanalysed(cfg *config.Config, slug, sku, ext string) Unanalysed {
	dir := filepath.Join(cfg.Paths.UnanalysedDir, slug)
	return Unanalysed{
		Dir:      dir,
		Original: filepath.Join(dir, slug+ext),
		Thumb:    filepath.Join(dir, sku+"-THUMB"+ext),
		Analyse:  filepath.Join(dir, sku+"-ANALYSE"+ext),
		QC:       filepath.Join(dir, sku+"-QC.json"),
	}
}

// Processed holds the artifact paths of one artwork in the processed stage.
type Processed struct {
	Dir       string
	Main      string
	Thumb     string
	Analyse   string
	QC        string
	FinalJSON string
	Auxiliary string
	ThumbsDir string
}

// ForProcessed resolves the processed-stage paths for a slug and SKU.
func ForProcessed(cfg *config.Config, slug, sku string) Processed {
	dir := filepath.Join(cfg.Paths.ProcessedDir, slug)
	base := slug + "-" + sku
	return Processed{
		Dir:       dir,
		Main:      filepath.Join(dir, base+".jpg"),
		Thumb:     filepath.Join(dir, base+"-THUMB.jpg"),
		Analyse:   filepath.Join(dir, base+"-ANALYSE.jpg"),
		QC:        filepath.Join(dir, sku+"-QC.json"),
		FinalJSON: filepath.Join(dir, sku+"-FINAL.json"),
		Auxiliary: filepath.Join(dir, base+"-AUX.jpg"),
		ThumbsDir: filepath.Join(dir, ThumbsDirName),
	}
}

// Mockup returns the path of the n-th (1-indexed) mockup for a processed
// artwork.
func (p Processed) Mockup(slug, sku string, n int) string {
	return filepath.Join(p.Dir, MockupName(slug, sku, n))
}

// MockupThumb returns the path of the n-th mockup thumbnail.
func (p Processed) MockupThumb(slug, sku string, n int) string {
	return filepath.Join(p.ThumbsDir, MockupThumbName(slug, sku, n))
}

// MockupName renders the n-th mockup filename.
func MockupName(slug, sku string, n int) string {
	return fmt.Sprintf("%s-%s-MU-%02d.jpg", slug, sku, n)
}

// MockupThumbName renders the n-th mockup thumbnail filename.
func MockupThumbName(slug, sku string, n int) string {
	return fmt.Sprintf("%s-%s-MU-%02d-THUMB.jpg", slug, sku, n)
}

// Finalised holds the artifact paths of one artwork in the finalised stage.
type Finalised struct {
	Dir     string
	Main    string
	Preview string
}

// ForFinalised resolves the finalised-stage paths for a slug and SKU.
func ForFinalised(cfg *config.Config, slug, sku string) Finalised {
	dir := filepath.Join(cfg.Paths.FinalisedDir, slug)
	base := slug + "-" + sku
	return Finalised{
		Dir:     dir,
		Main:    filepath.Join(dir, base+".jpg"),
		Preview: filepath.Join(dir, base+"-PREVIEW.jpg"),
	}
}

// FinalisedMockup returns the finalised-stage copy of the n-th mockup.
func (f Finalised) FinalisedMockup(slug, sku string, n int) string {
	return filepath.Join(f.Dir, MockupName(slug, sku, n))
}
