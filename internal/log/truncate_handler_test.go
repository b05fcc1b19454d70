package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTruncateHandler(t *testing.T) {
	t.Parallel()

	t.Run("short values pass through unchanged", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("fetched page", "url", "https://example.com/")

		if !strings.Contains(buf.String(), "https://example.com/") {
			t.Errorf("expected the value in the output, got %q", buf.String())
		}
		if strings.Contains(buf.String(), TruncationMark) {
			t.Error("expected no truncation for a short value")
		}
	})

	t.Run("oversized values are capped", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		body := strings.Repeat("x", MaxValueLength*4)
		logger.Info("fetched page", "body", body)

		out := buf.String()
		if !strings.Contains(out, TruncationMark) {
			t.Fatal("expected the value to be truncated")
		}
		if strings.Contains(out, body) {
			t.Error("expected the full value to be dropped")
		}
	})

	t.Run("group attributes are capped recursively", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("fetched page",
			slog.Group("page",
				slog.String("body", strings.Repeat("y", MaxValueLength*2)),
				slog.String("url", "https://example.com/"),
			),
		)

		out := buf.String()
		if !strings.Contains(out, TruncationMark) {
			t.Error("expected the nested value to be truncated")
		}
		if !strings.Contains(out, "https://example.com/") {
			t.Error("expected the short nested value to survive")
		}
	})

	t.Run("non-string values are untouched", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("resolved", "pseudonyms", 6)

		if !strings.Contains(buf.String(), "pseudonyms=6") {
			t.Errorf("expected the int attribute, got %q", buf.String())
		}
	})

	t.Run("debug is suppressed unless verbose", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("noise")
		if buf.Len() != 0 {
			t.Errorf("expected no debug output, got %q", buf.String())
		}

		verbose := NewLogger(&buf, true)
		verbose.Debug("signal")
		if !strings.Contains(buf.String(), "signal") {
			t.Error("expected debug output in verbose mode")
		}
	})

	t.Run("json logger emits valid structure", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, false)

		logger.Info("resolved", "url", "https://example.com/")

		out := buf.String()
		if !strings.Contains(out, `"msg":"resolved"`) {
			t.Errorf("expected JSON output, got %q", out)
		}
	})

	t.Run("WithAttrs caps persistent attributes", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false).With("snippet", strings.Repeat("z", MaxValueLength+1))

		logger.Info("resolved")

		if !strings.Contains(buf.String(), TruncationMark) {
			t.Error("expected the persistent attribute to be truncated")
		}
	})
}
