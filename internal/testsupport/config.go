package testsupport

import (
	"path/filepath"
	"testing"

	"dreamart/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Root = base
	cfg.Paths.UnanalysedDir = filepath.Join(base, "art-processing", "unanalysed-artwork")
	cfg.Paths.ProcessedDir = filepath.Join(base, "art-processing", "processed-artwork")
	cfg.Paths.FinalisedDir = filepath.Join(base, "art-processing", "finalised-artwork")
	cfg.Paths.TemplatesDir = filepath.Join(base, "mockup-templates")
	cfg.Paths.RegistryFile = filepath.Join(base, "master-artwork-paths.json")
	cfg.Paths.TrackerFile = filepath.Join(base, "sku-tracker.json")
	cfg.Paths.CatalogFile = filepath.Join(base, "catalog.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return &cfg
}

// WithSKUPrefix overrides the SKU prefix on the test config.
func WithSKUPrefix(prefix string) ConfigOption {
	return func(c *config.Config) {
		c.SKU.Prefix = prefix
	}
}

// WithPreviewBudget overrides the preview byte budget on the test config.
func WithPreviewBudget(maxBytes int64) ConfigOption {
	return func(c *config.Config) {
		c.Imaging.PreviewMaxBytes = maxBytes
	}
}
