package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fleetplus/internal/amqp"
	"fleetplus/internal/cli"
	"fleetplus/internal/export"
	"fleetplus/internal/export/googlesheets"
	"fleetplus/internal/export/memory"
	"fleetplus/internal/services"
	"fleetplus/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting fleetplus-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer store.Close()

	var writer export.ReportWriter
	switch cfg.ExportBackend {
	case "sheets":
		client, err := googlesheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export backend initialized", "spreadsheet_id", cfg.GoogleSpreadsheet)
	default:
		writer = memory.NewWriter()
		logger.Info("Memory export backend initialized")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reports := services.NewReportService(store, cfg.ObligationHorizonDays)
	exportWorker := worker.NewExportWorker(store, reports, writer, amqpClient, cfg.ExportBatchSize, cfg.ExportInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := exportWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
