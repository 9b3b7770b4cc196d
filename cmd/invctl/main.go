// invctl is the operator CLI. With arguments it runs one command and exits; without
// arguments it starts an interactive shell.
//
// Usage: go run ./cmd/invctl [command args...]
package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"reliable-inventory/internal/adapters/cli"
	"reliable-inventory/internal/adapters/repl"
	"reliable-inventory/internal/app"
	"reliable-inventory/internal/observability"
	"reliable-inventory/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	level, err := observability.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// Logs go to stderr so command output on stdout stays clean.
	logger := observability.NewLogger(os.Stderr, level, false)
	defer func() { _ = logger.Sync() }()

	cfg, err := store.ConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	st, release, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to open store: %v", err)
	}
	defer release()

	svc := app.NewFromStore(st, logger, nil)

	if len(os.Args) < 2 {
		repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
		return
	}

	if err := cli.Execute(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		release()
		if errors.Is(err, cli.ErrInconsistent) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
}
