package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	applog "ledger/internal/log"
	"ledger/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ledger-worker:", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg, os.Stdout).WithComponent(applog.ComponentWorker)

	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	store, err := cli.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	w := worker.NewEventWorker(store)
	logger.InfoContext(ctx, "Starting ledger-worker",
		"queue", cfg.AMQPQueue,
		"backend", cfg.DataBackend)

	err = client.ConsumeExpenseEvents(ctx, w.HandleEvent)

	stats := w.Stats()
	logger.Info("Worker stopped",
		"created", stats.Created,
		"updated", stats.Updated,
		"deleted", stats.Deleted,
		"stale", stats.Stale)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
