package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"park-locator-service/internal/api"
	"park-locator-service/internal/app"
	"park-locator-service/internal/config"
	"park-locator-service/internal/platform/logger"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the upstream client, position cache and park source behind ports
// and starts the HTTP server.
func main() {
	envErr := godotenv.Load()
	log := logger.Setup()
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.Build(ctx, cfg, nil)
	if err != nil {
		log.Error("startup_failed", "err", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	router := api.NewRouter(pipeline.Resolver, pipeline.Batch, pipeline.Parks, cfg.BatchMax)

	// A batch may wait on several upstream calls, each with retries.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("server_listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server_failed", "err", err)
		os.Exit(1)
	}
	log.Info("server_stopped")
}
