// Package store selects the core.Store backend named by STORAGE_DRIVER.
package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"reliable-inventory/internal/core"
	"reliable-inventory/internal/db"
	"reliable-inventory/internal/store/memory"
	"reliable-inventory/internal/store/postgres"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config names the backend and its connection settings.
type Config struct {
	Driver      string
	DatabaseURL string
	MaxConns    int32
}

// ConfigFromEnv reads STORAGE_DRIVER, DATABASE_URL and DB_MAX_CONNS.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Driver:      strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_DRIVER"))),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if raw := os.Getenv("DB_MAX_CONNS"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be a positive integer, got %q", raw)
		}
		cfg.MaxConns = int32(n)
	}
	return cfg, nil
}

// Open returns the configured store and a function that releases it.
func Open(ctx context.Context, cfg Config) (core.Store, func(), error) {
	switch cfg.Driver {
	case DriverMemory:
		return memory.New(), func() {}, nil
	case DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return postgres.New(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", cfg.Driver, DriverPostgres, DriverMemory)
	}
}
