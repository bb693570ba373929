package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestMaskingHandler tests credential masking in log output.
func TestMaskingHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks cookie values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Info("request sent", "cookie", "session=abc123", "url", "https://example.com")

		out := buf.String()
		if strings.Contains(out, "abc123") {
			t.Errorf("expected cookie value masked, got %q", out)
		}
		if !strings.Contains(out, MaskValue) {
			t.Errorf("expected mask marker in output, got %q", out)
		}
		if !strings.Contains(out, "https://example.com") {
			t.Errorf("expected url preserved, got %q", out)
		}
	})

	t.Run("masks authorization header attribute", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("extra headers applied", "Authorization", "Bearer secret-token")

		if strings.Contains(buf.String(), "secret-token") {
			t.Errorf("expected authorization value masked, got %q", buf.String())
		}
	})

	t.Run("masks grouped attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Info("site config", slog.Group("site", "cookie", "id=42", "host", "example.com"))

		out := buf.String()
		if strings.Contains(out, "id=42") {
			t.Errorf("expected grouped cookie masked, got %q", out)
		}
		if !strings.Contains(out, "example.com") {
			t.Errorf("expected host preserved, got %q", out)
		}
	})

	t.Run("respects verbosity levels", func(t *testing.T) {
		t.Parallel()

		var quiet bytes.Buffer
		NewLogger(&quiet, false).Info("informational message")
		if quiet.Len() != 0 {
			t.Errorf("expected info suppressed at warn level, got %q", quiet.String())
		}

		var verbose bytes.Buffer
		NewLogger(&verbose, true).Debug("debug message")
		if verbose.Len() == 0 {
			t.Error("expected debug output in verbose mode")
		}
	})

	t.Run("nil inner handler falls back to default", func(t *testing.T) {
		t.Parallel()

		h := NewMaskingHandler(nil)
		if h == nil {
			t.Fatal("expected handler")
		}
	})
}
