package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"tracker/internal/cli"
	"tracker/internal/events"
	applog "tracker/internal/log"
	"tracker/internal/service"
	"tracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentWorker)

	logger.Info("Starting tracker-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// The worker reads the same store the API writes, so it needs a durable
	// backend.
	if cfg.DataBackend != "sqlite" {
		logger.Error("Worker requires the sqlite backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}
	store := cli.OpenStore(logger, cfg)
	defer store.Close()

	// Google Sheets mirror is optional.
	var sheets *worker.SheetsAppender
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		sheets, err = worker.NewSheetsAppender(context.Background(),
			cfg.GoogleSpreadsheetID, cfg.GoogleSheetName,
			cfg.GoogleCredentialsFile, cfg.GoogleCredentialsJSON)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer eventsClient.Close()

	expenses := service.NewExpenseService(store, nil)
	reportWorker := worker.NewReportWorker(expenses, cfg.ReportDirectory, sheets)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming expense events", "queue", cfg.AMQPQueue, "report_dir", cfg.ReportDirectory)
	err = eventsClient.ConsumeExpenseEvents(ctx, func(event *events.ExpenseEvent) error {
		return reportWorker.HandleEvent(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
