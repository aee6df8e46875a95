// Package worker runs the report export pipeline: it consumes vehicle sync
// messages and mirrors the rebuilt report bundle to the configured writer,
// with a periodic backup scan for vehicles whose message got lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fleetplus/internal/amqp"
	"fleetplus/internal/export"
	"fleetplus/internal/log"
	"fleetplus/internal/services"
	"fleetplus/internal/storage"
)

type ExportWorker struct {
	storage      *storage.SQLiteRepository
	reports      *services.ReportService
	writer       export.ReportWriter
	amqpClient   *amqp.Client
	batchSize    int
	scanInterval time.Duration
}

func NewExportWorker(
	storage *storage.SQLiteRepository,
	reports *services.ReportService,
	writer export.ReportWriter,
	amqpClient *amqp.Client,
	batchSize int,
	scanInterval time.Duration,
) *ExportWorker {
	return &ExportWorker{
		storage:      storage,
		reports:      reports,
		writer:       writer,
		amqpClient:   amqpClient,
		batchSize:    batchSize,
		scanInterval: scanInterval,
	}
}

// Run blocks until the context is cancelled, consuming sync messages and
// running the backup scan concurrently.
func (w *ExportWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.amqpClient != nil {
		g.Go(func() error {
			return w.amqpClient.ConsumeVehicleSync(ctx, func(msg *amqp.VehicleSyncMessage) error {
				return w.HandleSyncMessage(ctx, msg)
			})
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.scanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.ProcessPendingVehicles(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending vehicle scan failed", log.FieldComponent, log.ComponentWorker, log.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}

// HandleSyncMessage re-exports one vehicle. The report is rebuilt from the
// database; the message is only a trigger.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.VehicleSyncMessage) error {
	slog.InfoContext(ctx, "Processing vehicle sync message",
		log.FieldComponent, log.ComponentWorker,
		log.FieldPlate, msg.Plate,
		"version", msg.Version)
	return w.exportVehicle(ctx, msg.Plate)
}

// ProcessPendingVehicles exports vehicles still flagged pending. This is the
// backup path for lost AMQP messages.
func (w *ExportWorker) ProcessPendingVehicles(ctx context.Context) error {
	pending, err := w.storage.ListPendingSyncVehicles(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending vehicles: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending vehicles", log.FieldComponent, log.ComponentWorker, "count", len(pending))
	for _, p := range pending {
		if err := w.exportVehicle(ctx, p.Plate); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending vehicle",
				log.FieldPlate, p.Plate, log.FieldError, err)
		}
	}
	return nil
}

func (w *ExportWorker) exportVehicle(ctx context.Context, plate string) error {
	report, err := w.reports.BuildVehicleReport(ctx, plate, time.Now())
	if err != nil {
		// The vehicle may have been deleted after the message was queued.
		if markErr := w.storage.MarkVehicleSyncError(ctx, plate); markErr != nil {
			slog.WarnContext(ctx, "Could not mark vehicle sync error",
				log.FieldPlate, plate, log.FieldError, markErr)
		}
		return fmt.Errorf("build report for %s: %w", plate, err)
	}

	if err := w.writer.WriteReport(ctx, report); err != nil {
		if markErr := w.storage.MarkVehicleSyncError(ctx, plate); markErr != nil {
			slog.WarnContext(ctx, "Could not mark vehicle sync error",
				log.FieldPlate, plate, log.FieldError, markErr)
		}
		return fmt.Errorf("write report for %s: %w", plate, err)
	}

	if err := w.storage.MarkVehicleSynced(ctx, plate); err != nil {
		return fmt.Errorf("mark vehicle synced: %w", err)
	}
	return nil
}
