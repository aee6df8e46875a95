// Package memory is an in-process report writer used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"fleetplus/internal/core"
	"fleetplus/internal/export"
)

type Writer struct {
	mu      sync.Mutex
	reports map[string]core.VehicleReport
}

var _ export.ReportWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{reports: make(map[string]core.VehicleReport)}
}

func (w *Writer) WriteReport(_ context.Context, report core.VehicleReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports[report.Vehicle.Plate] = report
	return nil
}

// Report returns the last exported bundle for a plate.
func (w *Writer) Report(plate string) (core.VehicleReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.reports[core.NormalizePlate(plate)]
	return r, ok
}

// Len returns how many vehicles have been exported.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.reports)
}
