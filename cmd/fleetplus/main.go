package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fleetplus/internal/amqp"
	"fleetplus/internal/cli"
	apphttp "fleetplus/internal/http"
	"fleetplus/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting fleetplus server")

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// AMQP is optional for the API server: without it mutations still land in
	// SQLite and the worker's pending scan picks the vehicles up later.
	var amqpClient *amqp.Client
	if client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Warn("AMQP unavailable, export messages disabled", "error", err)
	} else {
		amqpClient = client
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	fleet := services.NewFleetService(store, amqpClient)
	reports := services.NewReportService(store, cfg.ObligationHorizonDays)

	srv := apphttp.NewServer(":"+cfg.Port, store, fleet, reports, cfg.ReportCacheSize, cfg.ReportCacheTTL)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := fleet.Close(); err != nil {
			logger.Error("Service close error", "error", err)
		}
	})

	logger.Info("Listening", "port", cfg.Port, "horizon_days", cfg.ObligationHorizonDays)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
