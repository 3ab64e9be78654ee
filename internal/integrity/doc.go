// Package integrity audits the stage tree. The validator walks the
// unanalysed and processed stages and reports every missing required
// artifact without repairing anything; reconciliation cross-checks the
// catalog and registry against the tree; the repairer fixes orphaned units
// that carry no SKU.
package integrity
