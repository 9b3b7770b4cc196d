package main

import (
	"context"
	"testing"
)

func TestRun_StartupFailuresReturnErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"unknown storage driver", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"bad pool size", map[string]string{"STORAGE_DRIVER": "memory", "DB_MAX_CONNS": "-3"}},
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OTEL_ENDPOINT", "")
			t.Setenv("LOG_LEVEL", "error")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if err := run(context.Background()); err == nil {
				t.Fatal("run returned nil, want a startup error")
			}
		})
	}
}

func TestRun_StopsCleanlyOnCancel(t *testing.T) {
	t.Setenv("OTEL_ENDPOINT", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx); err != nil {
		t.Fatalf("run after cancel = %v, want nil", err)
	}
}
