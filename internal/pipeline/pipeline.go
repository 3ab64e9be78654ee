package pipeline

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"dreamart/internal/analysis"
	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/imageops"
	"dreamart/internal/logging"
	"dreamart/internal/registry"
	"dreamart/internal/sku"
)

// Pipeline is the stage-transition engine. Artwork records are mutated only
// through its operations; every transition writes its files first and
// touches the catalog and registry as the final step, so neither index ever
// references a path that does not yet exist.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	processor *imageops.Processor
	allocator *sku.Allocator
	registry  *registry.Registry
	store     *catalog.Store
	provider  analysis.Provider
	pattern   *regexp.Regexp
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithProvider overrides the analysis provider selected from configuration.
func WithProvider(provider analysis.Provider) Option {
	return func(p *Pipeline) {
		if provider != nil {
			p.provider = provider
		}
	}
}

// New wires a Pipeline from configuration and the shared catalog store. A
// nil logger is replaced with a no-op logger.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		processor: imageops.NewProcessor(cfg.Imaging, logger),
		allocator: sku.NewAllocator(cfg.Paths.TrackerFile, cfg.SKU.Prefix, cfg.SKU.Digits, logger),
		registry:  registry.New(cfg.Paths.RegistryFile, logger),
		store:     store,
		provider:  analysis.ForConfig(cfg.AI),
		pattern:   sku.Pattern(cfg.SKU.Prefix),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry exposes the underlying path index for read-only consumers.
func (p *Pipeline) Registry() *registry.Registry {
	return p.registry
}

// allowedExtension reports whether ext (including the dot) names an admitted
// upload format, returning the normalized form.
func allowedExtension(ext string) (string, bool) {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return ".jpg", true
	case ".png":
		return ".png", true
	default:
		return "", false
	}
}

// within reports whether path resolves to a descendant of root. Both inputs
// are made absolute and have symlinks evaluated before comparison, so
// neither relative traversal segments nor links planted under root can
// escape it.
func within(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(resolveExisting(absRoot), resolveExisting(absPath))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveExisting evaluates symlinks on the longest existing prefix of path
// and rejoins the remainder, so a candidate that does not exist yet is
// still anchored to its real parent directory.
func resolveExisting(path string) string {
	suffix := ""
	for current := path; ; {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(resolved, suffix)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return path
		}
		suffix = filepath.Join(filepath.Base(current), suffix)
		current = parent
	}
}
