// Package registry maintains master-artwork-paths.json, the durable index
// from slug to absolute artifact paths and listing metadata.
//
// The registry is the wire format other tooling reads; the typed catalog
// store carries the same records for queries. Updates are additive: a stage
// transition merges its slug's record and never rewrites other slugs.
package registry
