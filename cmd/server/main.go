package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	webAdapter "reliable-inventory/internal/adapters/web"
	"reliable-inventory/internal/app"
	"reliable-inventory/internal/observability"
	"reliable-inventory/internal/store"
)

func main() {
	_ = godotenv.Load()

	// Prices go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatalf("server: %v", err)
	}
}

// run serves until ctx is canceled. Every startup failure is returned, so the deferred
// telemetry flush and store release always run.
func run(ctx context.Context) error {
	level, err := observability.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	otelCfg := observability.Config{
		Endpoint:   os.Getenv("OTEL_ENDPOINT"),
		AuthHeader: os.Getenv("OTEL_AUTH_HEADER"),
	}
	shutdownOtel, err := observability.Setup(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	logger := observability.NewLogger(os.Stdout, level, otelCfg.Enabled())
	defer func() {
		_ = logger.Sync()
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(flushCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	storeCfg, err := store.ConfigFromEnv()
	if err != nil {
		logger.Error("config", zap.Error(err))
		return fmt.Errorf("config: %w", err)
	}
	st, release, err := store.Open(ctx, storeCfg)
	if err != nil {
		logger.Error("store", zap.String("driver", storeCfg.Driver), zap.Error(err))
		return fmt.Errorf("open %s store: %w", storeCfg.Driver, err)
	}
	defer release()

	svc := app.NewFromStore(st, logger, nil)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, logger, allowedOrigins)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           otelhttp.NewHandler(handler, "http.server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", port), zap.String("storage_driver", storeCfg.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
