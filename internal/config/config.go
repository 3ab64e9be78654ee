package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and state-file configuration. The three stage
// directories are the wire format of the pipeline; everything under them is
// treated as blob storage owned by the stage-transition engine.
type Paths struct {
	Root          string `toml:"root"`
	UnanalysedDir string `toml:"unanalysed_dir"`
	ProcessedDir  string `toml:"processed_dir"`
	FinalisedDir  string `toml:"finalised_dir"`
	TemplatesDir  string `toml:"templates_dir"`
	RegistryFile  string `toml:"registry_file"`
	TrackerFile   string `toml:"tracker_file"`
	CatalogFile   string `toml:"catalog_file"`
	LogDir        string `toml:"log_dir"`
}

// SKU contains stock-keeping identifier assignment settings.
type SKU struct {
	Prefix string `toml:"prefix"`
	Digits int    `toml:"digits"`
}

// Imaging contains derivative, preview, and decode-guard settings.
type Imaging struct {
	ThumbLongEdge   int   `toml:"thumb_long_edge"`
	AnalyseLongEdge int   `toml:"analyse_long_edge"`
	PreviewWidth    int   `toml:"preview_width"`
	PreviewMaxBytes int64 `toml:"preview_max_bytes"`
	QualityStart    int   `toml:"quality_start"`
	QualityFloor    int   `toml:"quality_floor"`
	QualityStep     int   `toml:"quality_step"`
	// MaxPixels flags (but does not reject) decoded images above this pixel
	// count. Zero disables the check.
	MaxPixels int64 `toml:"max_pixels"`
}

// AI contains configuration for the optional external analysis provider.
// When disabled or unreachable the pipeline falls back to deterministic mock
// analysis.
type AI struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the pipeline.
//
// Configuration sections by subsystem:
//   - Paths: stage directories, template dir, and state files
//   - SKU: identifier prefix and digit width
//   - Imaging: derivative sizes, preview budget, decode guard
//   - AI: optional external analysis provider
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	SKU     SKU     `toml:"sku"`
	Imaging Imaging `toml:"imaging"`
	AI      AI      `toml:"ai"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dreamart/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dreamart.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the stage directories and log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.Root,
		c.Paths.UnanalysedDir,
		c.Paths.ProcessedDir,
		c.Paths.FinalisedDir,
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.TemplatesDir) != "" {
		// Best-effort: mockup templates may live on external storage.
		_ = os.MkdirAll(c.Paths.TemplatesDir, 0o755)
	}
	return nil
}

// MarkerFile returns the project marker path the validator requires at the
// pipeline root.
func (c *Config) MarkerFile() string {
	return filepath.Join(c.Paths.Root, "dreamart.toml")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
