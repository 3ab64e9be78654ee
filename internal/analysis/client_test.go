package analysis_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"dreamart/internal/analysis"
	"dreamart/internal/config"
)

func writeSource(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artwork.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestMockProviderEchoesSource(t *testing.T) {
	data := []byte("jpeg-bytes-stand-in")
	path := writeSource(t, data)

	result, err := analysis.MockProvider{}.Analyze(context.Background(), analysis.Request{Slug: "piece", ImagePath: path})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Provider != "mock" {
		t.Fatalf("unexpected provider: %q", result.Provider)
	}
	if !bytes.Equal(result.ImageBytes, data) {
		t.Fatal("auxiliary image does not echo the source bytes")
	}
	if result.Notes == "" {
		t.Fatal("expected explanatory notes on mock result")
	}
}

func TestClientAnalyzeRoundTrip(t *testing.T) {
	source := []byte("source-image")
	auxiliary := []byte("auxiliary-image")
	path := writeSource(t, source)

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Model string `json:"model"`
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil || !bytes.Equal(decoded, source) {
			t.Error("request did not carry the source image")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(auxiliary)}},
		})
	}))
	defer server.Close()

	client := analysis.NewClient(config.AI{
		Enabled: true,
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	result, err := client.Analyze(context.Background(), analysis.Request{Slug: "piece", ImagePath: path})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if !bytes.Equal(result.ImageBytes, auxiliary) {
		t.Fatal("auxiliary image not decoded from response")
	}
	if len(result.Payload) == 0 {
		t.Fatal("expected raw payload to be preserved")
	}
}

func TestClientAnalyzeSurfacesHTTPErrors(t *testing.T) {
	path := writeSource(t, []byte("source"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := analysis.NewClient(config.AI{Enabled: true, BaseURL: server.URL, APIKey: "k"})
	if _, err := client.Analyze(context.Background(), analysis.Request{ImagePath: path}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestForConfigSelection(t *testing.T) {
	if _, ok := analysis.ForConfig(config.AI{Enabled: false}).(analysis.MockProvider); !ok {
		t.Fatal("disabled config should select the mock provider")
	}
	if _, ok := analysis.ForConfig(config.AI{Enabled: true, APIKey: "  "}).(analysis.MockProvider); !ok {
		t.Fatal("blank API key should select the mock provider")
	}
	if _, ok := analysis.ForConfig(config.AI{Enabled: true, APIKey: "k"}).(*analysis.Client); !ok {
		t.Fatal("enabled config with key should select the HTTP client")
	}
}
