package analysis

import (
	"context"
	"encoding/json"
	"os"
)

// Request describes one artwork analysis invocation.
type Request struct {
	Slug      string
	ImagePath string
}

// Result carries the analysis document plus the auxiliary image returned by
// the provider. Payload is persisted verbatim as the analysis JSON.
type Result struct {
	Provider   string          `json:"provider"`
	Notes      string          `json:"notes,omitempty"`
	Payload    json.RawMessage `json:"data,omitempty"`
	ImageBytes []byte          `json:"-"`
}

// Provider produces an analysis for an artwork image. Implementations must
// honor ctx cancellation.
type Provider interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	Name() string
}

// MockProvider is the deterministic fallback: the analysis notes record that
// no external provider ran, and the auxiliary image simply echoes the source
// bytes.
type MockProvider struct{}

// Name implements Provider.
func (MockProvider) Name() string { return "mock" }

// Analyze implements Provider.
func (MockProvider) Analyze(_ context.Context, req Request) (Result, error) {
	data, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Provider:   "mock",
		Notes:      "external analysis unavailable or errored",
		ImageBytes: data,
	}, nil
}
