package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "test-svc"})

	ctx := l.WithContext(context.Background())
	ctx = WithFields(ctx, Fields{FieldRequestID: "req-1"})
	With(Fields{FieldCount: 3}).Info(ctx, "loaded %d", 3)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}

	checks := map[string]interface{}{
		"service":      "test-svc",
		"message":      "loaded 3",
		"level":        "info",
		FieldRequestID: "req-1",
		FieldCount:     float64(3),
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("field %s: expected %v, got %v", k, want, line[k])
		}
	}
	if _, ok := line["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != GetDefault() {
		t.Error("expected default logger for bare context")
	}
	if GetRequestID(context.Background()) != "" {
		t.Error("expected empty request id")
	}
}

func TestGetRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Output: &buf})
	ctx := WithField(l.WithContext(context.Background()), FieldRequestID, "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_MAX_SIZE", "not-a-number")
	t.Setenv("LOG_COMPRESS", "false")

	cfg := LoadFromEnv("svc")
	if cfg.Level != "debug" {
		t.Errorf("expected debug, got %s", cfg.Level)
	}
	if cfg.MaxSize != 100 {
		t.Errorf("expected default max size on bad input, got %d", cfg.MaxSize)
	}
	if cfg.Compress {
		t.Error("expected compress=false")
	}
	if cfg.ServiceName != "svc" {
		t.Errorf("expected svc, got %s", cfg.ServiceName)
	}
}
