package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerRedactsContactPII(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("production", Options{Writer: &buf})

	log.Info("contact upserted", "phone", "6621234567", "email", "ana@example.com", "tracking_code", "CNT-2026-00042")

	out := buf.String()
	if strings.Contains(out, "6621234567") {
		t.Fatalf("expected phone to be redacted, got %s", out)
	}
	if strings.Contains(out, "ana@example.com") {
		t.Fatalf("expected email to be redacted, got %s", out)
	}
	if !strings.Contains(out, "CNT-2026-00042") {
		t.Fatalf("expected tracking code to be logged, got %s", out)
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("production", Options{Writer: &buf})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	log.WithContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Fatalf("expected request_id in output, got %s", buf.String())
	}
}

func TestDegradedStepLogsAtWarn(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("production", Options{Writer: &buf})

	log.DegradedStep("webhook", "CNT-2026-12345", errors.New("timeout"))

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"step":"webhook"`) {
		t.Fatalf("unexpected output %s", out)
	}
}
