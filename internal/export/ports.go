// Package export defines the outbound ports report bundles leave through.
// The engine treats every exporter as a consumer of the bundle; no formatting
// decisions live in the core.
package export

import (
	"context"

	"fleetplus/internal/core"
)

// ReportWriter mirrors one vehicle's report bundle to an external destination.
type ReportWriter interface {
	WriteReport(ctx context.Context, report core.VehicleReport) error
}
