// cobros-worker consumes the mutation queue and writes an audit trail.
// It exists so the main process never blocks on downstream consumers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cobros/internal/config"
	"cobros/internal/events"
	applog "cobros/internal/log"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel, "cobros-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker started", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeMutations(ctx, func(msg *events.MutationMessage) error {
		logger.Info("Mutation recorded",
			"entity", msg.Entity,
			"action", msg.Action,
			"id", msg.ID,
			"at", msg.Timestamp)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
