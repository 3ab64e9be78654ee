package integrity

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"dreamart/internal/config"
	"dreamart/internal/layout"
	"dreamart/internal/logging"
	"dreamart/internal/sku"
)

var (
	mockupPattern      = regexp.MustCompile(`-MU-\d{2}\.jpg$`)
	mockupThumbPattern = regexp.MustCompile(`-MU-\d{2}-THUMB\.jpg$`)
)

// Validator audits the stage tree and reports every missing required
// artifact. It is strictly read-only: problems are returned and logged,
// never repaired.
type Validator struct {
	cfg     *config.Config
	logger  *slog.Logger
	pattern *regexp.Regexp
}

// New builds a Validator. A nil logger is replaced with a no-op logger.
func New(cfg *config.Config, logger *slog.Logger) *Validator {
	return &Validator{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "integrity"),
		pattern: sku.Pattern(cfg.SKU.Prefix),
	}
}

// Validate audits the whole tree: a missing project marker at the root is
// reported first, then both stage checks run regardless and their problems
// aggregate in order, unanalysed first. An empty result means the tree is
// clean.
func (v *Validator) Validate() []string {
	var problems []string
	marker := v.cfg.MarkerFile()
	if _, err := os.Stat(marker); err != nil {
		problems = append(problems, fmt.Sprintf("Project marker file missing at %s", marker))
	}

	problems = append(problems, v.CheckUnanalysed(v.cfg.Paths.UnanalysedDir)...)
	problems = append(problems, v.CheckProcessed(v.cfg.Paths.ProcessedDir)...)
	for _, problem := range problems {
		v.logger.Warn("integrity problem", logging.String("problem", problem))
	}
	return problems
}

// CheckUnanalysed verifies every artwork unit in the unanalysed stage. A
// unit is either a slug sub-folder or, in the legacy flat layout, a base
// image file sitting directly in dir. Each unit requires its original file,
// THUMB and ANALYSE derivatives, and QC JSON; every absence is a separate
// problem string.
func (v *Validator) CheckUnanalysed(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{fmt.Sprintf("Unanalysed directory unreadable at %s", dir)}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var problems []string
	for _, entry := range entries {
		if entry.IsDir() {
			problems = append(problems, v.checkUnanalysedFolder(filepath.Join(dir, entry.Name()))...)
			continue
		}
		if isBaseImage(entry.Name()) {
			problems = append(problems, v.checkLegacyFlatUnit(dir, entry.Name())...)
		}
	}
	return problems
}

// checkUnanalysedFolder audits one slug folder.
func (v *Validator) checkUnanalysedFolder(dir string) []string {
	slug := filepath.Base(dir)
	names, err := listNames(dir)
	if err != nil {
		return []string{fmt.Sprintf("Artwork folder unreadable at %s", dir)}
	}

	label := slug
	if id, ok := firstSKU(v.pattern, names); ok {
		label = fmt.Sprintf("%s (%s)", slug, id)
	}

	var problems []string
	if !anyMatch(names, isBaseImage) {
		problems = append(problems, fmt.Sprintf("Missing original file for %s", label))
	}
	if !anyMatch(names, func(name string) bool { return strings.Contains(name, "-THUMB") }) {
		problems = append(problems, fmt.Sprintf("Missing THUMB derivative for %s", label))
	}
	if !anyMatch(names, func(name string) bool { return strings.Contains(name, "-ANALYSE") }) {
		problems = append(problems, fmt.Sprintf("Missing ANALYSE derivative for %s", label))
	}
	if !anyMatch(names, func(name string) bool { return strings.HasSuffix(name, "-QC.json") }) {
		problems = append(problems, fmt.Sprintf("Missing QC JSON for %s", label))
	}
	return problems
}

// checkLegacyFlatUnit audits one base file in the legacy flat layout, where
// all artifacts sit beside each other with the SKU embedded in filenames.
func (v *Validator) checkLegacyFlatUnit(dir, base string) []string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	label := stem
	qcName := stem + "-QC.json"
	if id, ok := sku.Extract(v.pattern, base); ok {
		label = fmt.Sprintf("%s (%s)", stem, id)
		qcName = id + "-QC.json"
	}

	var problems []string
	if !fileExists(filepath.Join(dir, stem+"-THUMB"+ext)) {
		problems = append(problems, fmt.Sprintf("Missing THUMB derivative for %s", label))
	}
	if !fileExists(filepath.Join(dir, stem+"-ANALYSE"+ext)) {
		problems = append(problems, fmt.Sprintf("Missing ANALYSE derivative for %s", label))
	}
	if !fileExists(filepath.Join(dir, qcName)) {
		problems = append(problems, fmt.Sprintf("Missing QC JSON for %s", label))
	}
	return problems
}

// CheckProcessed verifies every artwork folder in the processed stage. The
// SKU is recovered by scanning filenames; a folder with no SKU-bearing
// filename reports that and is skipped. All problems in a folder are
// reported, never just the first.
func (v *Validator) CheckProcessed(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{fmt.Sprintf("Processed directory unreadable at %s", dir)}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var problems []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		problems = append(problems, v.checkProcessedFolder(filepath.Join(dir, entry.Name()))...)
	}
	return problems
}

func (v *Validator) checkProcessedFolder(dir string) []string {
	slug := filepath.Base(dir)
	names, err := listNames(dir)
	if err != nil {
		return []string{fmt.Sprintf("Artwork folder unreadable at %s", dir)}
	}

	skuID, ok := firstSKU(v.pattern, names)
	if !ok {
		return []string{fmt.Sprintf("No SKU found in processed folder %s", slug)}
	}
	label := fmt.Sprintf("%s (%s)", slug, skuID)
	base := slug + "-" + skuID

	var problems []string
	required := []struct {
		name string
		what string
	}{
		{base + ".jpg", "main image"},
		{base + "-THUMB.jpg", "THUMB derivative"},
		{base + "-ANALYSE.jpg", "ANALYSE derivative"},
		{skuID + "-QC.json", "QC JSON"},
		{skuID + "-FINAL.json", "Final JSON"},
	}
	for _, req := range required {
		if !fileExists(filepath.Join(dir, req.name)) {
			problems = append(problems, fmt.Sprintf("Missing %s for %s", req.what, label))
		}
	}

	mockups := 0
	for _, name := range names {
		if mockupPattern.MatchString(name) {
			mockups++
		}
	}
	if mockups != layout.MockupCount {
		problems = append(problems, fmt.Sprintf("Expected %d mockups for %s, found %d", layout.MockupCount, label, mockups))
	}

	thumbsDir := filepath.Join(dir, layout.ThumbsDirName)
	thumbNames, err := listNames(thumbsDir)
	if err != nil {
		problems = append(problems, fmt.Sprintf("Missing THUMBS folder for %s", label))
		return problems
	}
	thumbs := 0
	for _, name := range thumbNames {
		if mockupThumbPattern.MatchString(name) {
			thumbs++
		}
	}
	if thumbs != layout.MockupCount {
		problems = append(problems, fmt.Sprintf("Expected %d mockup thumbnails for %s, found %d", layout.MockupCount, label, thumbs))
	}
	return problems
}

func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func firstSKU(pattern *regexp.Regexp, names []string) (string, bool) {
	for _, name := range names {
		if id, ok := sku.Extract(pattern, name); ok {
			return id, true
		}
	}
	return "", false
}

func isBaseImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return false
	}
	return !strings.Contains(name, "-THUMB") && !strings.Contains(name, "-ANALYSE") && !strings.Contains(name, "-MU-")
}

func anyMatch(names []string, match func(string) bool) bool {
	for _, name := range names {
		if match(name) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
