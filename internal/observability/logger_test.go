package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"ERROR", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_WritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, zapcore.WarnLevel, false)

	logger.Info("dropped")
	logger.Warn("kept", zap.Int64("warehouse_id", 7))
	_ = logger.Sync()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" {
		t.Errorf("msg = %v, want kept", entry["msg"])
	}
	if entry["warehouse_id"] != float64(7) {
		t.Errorf("warehouse_id = %v, want 7", entry["warehouse_id"])
	}
	if entry["service.name"] != ServiceName {
		t.Errorf("service.name = %v, want %s", entry["service.name"], ServiceName)
	}
}

func TestSetup_DisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}
