package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSKU()
	c.normalizeImaging()
	c.normalizeAI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.root", &c.Paths.Root, defaultRoot},
		{"paths.unanalysed_dir", &c.Paths.UnanalysedDir, defaultUnanalysedDir},
		{"paths.processed_dir", &c.Paths.ProcessedDir, defaultProcessedDir},
		{"paths.finalised_dir", &c.Paths.FinalisedDir, defaultFinalisedDir},
		{"paths.templates_dir", &c.Paths.TemplatesDir, defaultTemplatesDir},
		{"paths.registry_file", &c.Paths.RegistryFile, defaultRegistryFile},
		{"paths.tracker_file", &c.Paths.TrackerFile, defaultTrackerFile},
		{"paths.catalog_file", &c.Paths.CatalogFile, defaultCatalogFile},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(*field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeSKU() {
	c.SKU.Prefix = strings.ToUpper(strings.TrimSpace(c.SKU.Prefix))
	if c.SKU.Prefix == "" {
		c.SKU.Prefix = defaultSKUPrefix
	}
	if c.SKU.Digits <= 0 {
		c.SKU.Digits = defaultSKUDigits
	}
}

func (c *Config) normalizeImaging() {
	if c.Imaging.ThumbLongEdge <= 0 {
		c.Imaging.ThumbLongEdge = defaultThumbLongEdge
	}
	if c.Imaging.AnalyseLongEdge <= 0 {
		c.Imaging.AnalyseLongEdge = defaultAnalyseLongEdge
	}
	if c.Imaging.PreviewWidth <= 0 {
		c.Imaging.PreviewWidth = defaultPreviewWidth
	}
	if c.Imaging.PreviewMaxBytes <= 0 {
		c.Imaging.PreviewMaxBytes = defaultPreviewMaxBytes
	}
	if c.Imaging.QualityStart <= 0 || c.Imaging.QualityStart > 100 {
		c.Imaging.QualityStart = defaultQualityStart
	}
	if c.Imaging.QualityFloor <= 0 {
		c.Imaging.QualityFloor = defaultQualityFloor
	}
	if c.Imaging.QualityStep <= 0 {
		c.Imaging.QualityStep = defaultQualityStep
	}
	if c.Imaging.MaxPixels < 0 {
		c.Imaging.MaxPixels = 0
	}
}

func (c *Config) normalizeAI() {
	c.AI.BaseURL = strings.TrimSpace(c.AI.BaseURL)
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = defaultAIBaseURL
	}
	if c.AI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.AI.APIKey = value
		}
	}
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	c.AI.Model = strings.TrimSpace(c.AI.Model)
	if c.AI.Model == "" {
		c.AI.Model = defaultAIModel
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
