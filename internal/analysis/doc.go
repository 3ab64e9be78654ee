// Package analysis produces the per-artwork analysis document, either via an
// external OpenAI-style provider with a bounded timeout or via a
// deterministic mock that echoes the source bytes.
//
// The pipeline treats provider failure as a soft condition: any error from
// the HTTP client triggers the mock fallback rather than failing the stage
// transition.
package analysis
