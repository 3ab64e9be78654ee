package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSKU(); err != nil {
		return err
	}
	if err := c.validateImaging(); err != nil {
		return err
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSKU() error {
	for _, r := range c.SKU.Prefix {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("sku.prefix %q may only contain A-Z and 0-9", c.SKU.Prefix)
		}
	}
	if c.SKU.Digits < 3 || c.SKU.Digits > 12 {
		return errors.New("sku.digits must be between 3 and 12")
	}
	return nil
}

func (c *Config) validateImaging() error {
	if c.Imaging.ThumbLongEdge >= c.Imaging.AnalyseLongEdge {
		return errors.New("imaging.thumb_long_edge must be smaller than imaging.analyse_long_edge")
	}
	if c.Imaging.QualityFloor >= c.Imaging.QualityStart {
		return errors.New("imaging.quality_floor must be below imaging.quality_start")
	}
	return nil
}

func (c *Config) validateAI() error {
	if !c.AI.Enabled {
		return nil
	}
	if strings.TrimSpace(c.AI.APIKey) == "" {
		return errors.New("ai.api_key must be set when ai.enabled is true (or export OPENAI_API_KEY)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
