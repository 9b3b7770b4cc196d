package store

import (
	"context"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", " Memory ")
	t.Setenv("DB_MAX_CONNS", "12")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Driver != DriverMemory || cfg.MaxConns != 12 {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DB_MAX_CONNS", "zero")
	if _, err := ConfigFromEnv(); err == nil {
		t.Error("expected error for non-numeric DB_MAX_CONNS")
	}

	t.Setenv("DB_MAX_CONNS", "")
	cfg, err = ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Driver != DriverPostgres {
		t.Errorf("default driver = %q, want %q", cfg.Driver, DriverPostgres)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, release, err := Open(ctx, Config{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	defer release()
	if err := s.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}

	if _, _, err := Open(ctx, Config{Driver: "sqlite"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, _, err := Open(ctx, Config{Driver: DriverPostgres}); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}
}
