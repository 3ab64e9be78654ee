// Package catalog persists typed artwork records in SQLite, keyed by slug.
//
// The directory tree remains the blob store; the catalog is what queries,
// listings, and reconciliation read instead of inferring state from filename
// patterns. Records are mutated only by the stage-transition engine.
package catalog
