// Package config loads, normalizes, and validates the TOML configuration
// that drives the artwork pipeline.
//
// Load resolves the config path (explicit flag, ~/.config/dreamart, or a
// project-local dreamart.toml), decodes it over Default(), expands every
// path field to an absolute location, and rejects unusable values before any
// component sees them. Components receive the typed Config rather than
// re-reading files themselves.
package config
