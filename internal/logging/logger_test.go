package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"dreamart/internal/logging"
)

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logging.NewComponentLogger(logger, "intake").Info("stored upload",
		logging.String(logging.FieldSlug, "sunset-over-reef"),
	)

	line := buf.String()
	if !strings.Contains(line, "intake: stored upload") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "slug=sunset-over-reef") {
		t.Fatalf("expected slug attr, got %q", line)
	}
}

func TestJSONFormatSelected(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected msg key, got %q", buf.String())
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info line should be filtered, got %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn line missing, got %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("nothing happens", logging.Error(nil))
}
