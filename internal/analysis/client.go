package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"dreamart/internal/config"
)

const defaultHTTPTimeout = 30 * time.Second

// Client calls an OpenAI-style image variation endpoint to produce the
// analysis document and auxiliary image. Any failure is the caller's cue to
// fall back to the mock provider; the client never retries internally
// because the pipeline's fallback already bounds the damage.
type Client struct {
	cfg        config.AI
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (useful for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an analysis client using the supplied configuration.
func NewClient(cfg config.AI, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name implements Provider.
func (c *Client) Name() string { return "openai" }

type variationRequest struct {
	Model string `json:"model"`
	Image string `json:"image"`
}

type variationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Analyze implements Provider against the configured HTTP endpoint.
func (c *Client) Analyze(ctx context.Context, req Request) (Result, error) {
	imageData, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return Result{}, fmt.Errorf("read artwork: %w", err)
	}

	body, err := json.Marshal(variationRequest{
		Model: c.cfg.Model,
		Image: base64.StdEncoding.EncodeToString(imageData),
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/images/variations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("call analysis endpoint: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("analysis endpoint returned %s", resp.Status)
	}

	var decoded variationResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Data) == 0 || decoded.Data[0].B64JSON == "" {
		return Result{}, fmt.Errorf("analysis response contained no image data")
	}
	auxiliary, err := base64.StdEncoding.DecodeString(decoded.Data[0].B64JSON)
	if err != nil {
		return Result{}, fmt.Errorf("decode auxiliary image: %w", err)
	}

	return Result{
		Provider:   c.Name(),
		Payload:    json.RawMessage(payload),
		ImageBytes: auxiliary,
	}, nil
}

// ForConfig selects the provider for the given configuration: the HTTP
// client when the external provider is enabled with a key, otherwise the
// deterministic mock.
func ForConfig(cfg config.AI) Provider {
	if cfg.Enabled && strings.TrimSpace(cfg.APIKey) != "" {
		return NewClient(cfg)
	}
	return MockProvider{}
}
