// Package mockups overlays processed artwork onto a fixed set of template
// backgrounds, producing up to nine numbered composites and matching
// thumbnails. Slots are idempotent and dimension mismatches downgrade to a
// partial set rather than a failure.
package mockups
