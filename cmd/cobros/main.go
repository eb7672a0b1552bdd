package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cobros/internal/config"
	"cobros/internal/events"
	apphttp "cobros/internal/http"
	applog "cobros/internal/log"
	"cobros/internal/remote"
	"cobros/internal/storage"
	"cobros/internal/store"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel, "cobros")

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, err := storage.NewCache(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local cache", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer cache.Close()

	var backend store.Remote
	if cfg.DataBackend == "remote" {
		cli, err := remote.NewFromEnv(ctx)
		if err != nil {
			logger.Warn("Remote backend not configured, falling back to local cache", "error", err)
		} else {
			backend = cli
		}
	}

	var publisher store.Publisher
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, mutation events disabled", "error", err)
		} else {
			publisher = eventsClient
			defer eventsClient.Close()
		}
	}

	records, err := store.New(ctx, backend, cache, publisher)
	if err != nil {
		logger.Error("Failed to initialize record store", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, records)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting cobros server",
			"port", cfg.Port,
			"mode", string(records.Mode()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
