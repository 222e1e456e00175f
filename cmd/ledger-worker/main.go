package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/reports"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting ledger-worker")

	cfg := cli.LoadAndValidateConfig(logger.Logger)
	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger.Logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alerts := worker.NewBudgetAlertWorker(reports.NewEngine(repo), cfg.BudgetAlertThreshold)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, nil)

	go func() {
		if err := amqpClient.ConsumeLedgerEvents(ctx, alerts.HandleLedgerEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Consuming ledger events", "queue", cfg.AMQPQueue, "threshold", cfg.BudgetAlertThreshold)
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
