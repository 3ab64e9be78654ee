// Package imageops renders the raster artifacts the pipeline derives from an
// uploaded artwork: the THUMB/ANALYSE derivative pair with its QC metadata,
// and the byte-capped listing preview.
//
// Decoding limits are scoped configuration on the Processor, not a global
// override of the underlying image library.
package imageops
