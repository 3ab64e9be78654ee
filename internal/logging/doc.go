// Package logging assembles structured slog loggers and formatting helpers
// used across the pipeline.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes typed attribute helpers plus standardized field keys so every
// component tags log lines with the same slug/sku/stage shape. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
