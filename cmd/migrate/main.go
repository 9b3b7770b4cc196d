// migrate applies migrations/NNN_*.sql in order. Each file runs in its own transaction and is
// recorded in schema_migrations with its sha256; an edited, already-applied file is an error.
//
// Usage: go run ./cmd/migrate [-dir migrations]
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"reliable-inventory/internal/db"
)

// migrationLockKey is the pg advisory lock held while migrating.
const migrationLockKey = 7462839

func main() {
	dir := flag.String("dir", "migrations", "directory holding NNN_description.sql files")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool := connectDB(ctx, os.Getenv("DATABASE_URL"))
	defer pool.Close()

	conn := acquireLock(ctx, pool)
	defer conn.Release()

	setupSchemaMigrations(ctx, pool)

	for _, filename := range discoverMigrations(*dir) {
		applyMigration(ctx, pool, *dir, filename)
	}

	log.Println("[DONE] All migrations processed.")
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := db.NewPool(connCtx, url, 2)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	log.Println("[CONNECT] success")
	return pool
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) *pgxpool.Conn {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		log.Fatalf("[LOCK] failed to acquire connection for lock: %v", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockKey).Scan(&locked); err != nil {
		log.Fatalf("[LOCK] failed to query advisory lock: %v", err)
	}
	if !locked {
		log.Fatalf("[LOCK] failed: another migrator is currently running")
	}

	log.Println("[LOCK] success")
	return conn
}

func setupSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		log.Fatalf("[ERROR] failed to create schema_migrations table: %v", err)
	}
}

func discoverMigrations(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("[DISCOVER] failed to read migrations directory: %v", err)
	}

	var filenames []string
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		filename := entry.Name()
		version := extractVersion(filename)
		if prev, ok := seen[version]; ok {
			log.Fatalf("[DISCOVER] duplicate version %s: %s and %s", version, prev, filename)
		}
		seen[version] = filename
		filenames = append(filenames, filename)
	}

	sort.Strings(filenames)
	return filenames
}

func extractVersion(filename string) string {
	version, _, ok := strings.Cut(filename, "_")
	if !ok || version == "" {
		log.Fatalf("[DISCOVER] invalid migration filename %s. Expected NNN_description.sql", filename)
	}
	return version
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, dir, filename string) {
	version := extractVersion(filename)

	sqlBytes, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		log.Fatalf("[ERROR] failed to read migration file %s: %v", filename, err)
	}
	sum := sha256.Sum256(sqlBytes)
	checksum := hex.EncodeToString(sum[:])

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			log.Fatalf("[ERROR] checksum mismatch for %s: applied %s, file %s", filename, existing, checksum)
		}
		log.Printf("[SKIP] %s", filename)
		return
	case errors.Is(err, pgx.ErrNoRows):
	default:
		log.Fatalf("[ERROR] failed to query schema_migrations for %s: %v", filename, err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("[ERROR] failed to begin transaction for %s: %v", filename, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		log.Fatalf("[ERROR] failed to execute migration %s: %v", filename, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
		version, filename, checksum); err != nil {
		log.Fatalf("[ERROR] failed to insert migration record for %s: %v", filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("[ERROR] failed to commit transaction for %s: %v", filename, err)
	}

	log.Printf("[APPLY] %s", filename)
}
