package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fleetplus/internal/core"
	"fleetplus/internal/log"
)

// ReportRepository is the read surface the assembler consumes. List methods
// return all rows scoped to one vehicle; ordering is re-established here so
// the invariants hold regardless of the store.
type ReportRepository interface {
	ProductCatalog

	GetVehicle(ctx context.Context, plate string) (core.Vehicle, error)
	GetServiceEvent(ctx context.Context, id int64) (core.ServiceEvent, error)
	GetObligation(ctx context.Context, id int64) (core.Obligation, error)
	GetSupplier(ctx context.Context, id int64) (core.Supplier, error)

	ListServiceEventsByVehicle(ctx context.Context, plate string) ([]core.ServiceEvent, error)
	ListObligationsByVehicle(ctx context.Context, plate string) ([]core.Obligation, error)
	ListExpensesByVehicle(ctx context.Context, plate string) ([]core.Expense, error)
	ListInvoicesByVehicle(ctx context.Context, plate string) ([]core.Invoice, error)
}

// ReportService assembles the vehicle-scoped report bundle and answers the
// three standalone queries (single-event projection, single-obligation state,
// per-vehicle cost totals).
type ReportService struct {
	repo        ReportRepository
	resolver    *CatalogResolver
	horizonDays int
}

func NewReportService(repo ReportRepository, horizonDays int) *ReportService {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &ReportService{
		repo:        repo,
		resolver:    NewCatalogResolver(repo),
		horizonDays: horizonDays,
	}
}

// BuildVehicleReport assembles the full bundle for one vehicle. Only a missing
// vehicle fails the call (core.ErrVehicleNotFound); every nested lookup that
// fails degrades its single row instead of aborting the bundle.
func (s *ReportService) BuildVehicleReport(ctx context.Context, plate string, today time.Time) (core.VehicleReport, error) {
	plate = core.NormalizePlate(plate)

	vehicle, err := s.repo.GetVehicle(ctx, plate)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.VehicleReport{}, core.ErrVehicleNotFound
		}
		return core.VehicleReport{}, fmt.Errorf("get vehicle %s: %w", plate, err)
	}

	report := core.VehicleReport{
		Vehicle:     vehicle,
		GeneratedAt: truncateToDay(today),
	}

	if report.Maintenance, err = s.maintenanceRows(ctx, plate); err != nil {
		return core.VehicleReport{}, err
	}

	obligations, err := s.repo.ListObligationsByVehicle(ctx, plate)
	if err != nil {
		return core.VehicleReport{}, fmt.Errorf("list obligations for %s: %w", plate, err)
	}
	report.Obligations = ClassifyAll(obligations, today, s.horizonDays)

	expenses, err := s.repo.ListExpensesByVehicle(ctx, plate)
	if err != nil {
		return core.VehicleReport{}, fmt.Errorf("list expenses for %s: %w", plate, err)
	}
	invoices, err := s.repo.ListInvoicesByVehicle(ctx, plate)
	if err != nil {
		return core.VehicleReport{}, fmt.Errorf("list invoices for %s: %w", plate, err)
	}

	report.Expenses = expenseRows(expenses)
	report.Invoices = s.invoiceRows(ctx, invoices)
	report.Costs = Aggregate(plate, expenses, invoices)

	return report, nil
}

// maintenanceRows pairs each service event with its projection, ordered by
// ascending odometer-at-service (id breaks ties). Odometer is the primary
// wear signal, so date order is irrelevant here.
func (s *ReportService) maintenanceRows(ctx context.Context, plate string) ([]core.MaintenanceRow, error) {
	events, err := s.repo.ListServiceEventsByVehicle(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("list service events for %s: %w", plate, err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].OdometerKm != events[j].OdometerKm {
			return events[i].OdometerKm < events[j].OdometerKm
		}
		return events[i].ID < events[j].ID
	})

	rows := make([]core.MaintenanceRow, 0, len(events))
	for _, event := range events {
		lifespan, err := s.resolver.ResolveLifespan(ctx, event.ProductID)
		if err != nil {
			// Product deleted out from under the event: degrade this row only.
			slog.WarnContext(ctx, "Lifespan unknown for service event",
				log.FieldEventID, event.ID,
				log.FieldProductID, event.ProductID,
				log.FieldError, err)
			rows = append(rows, core.MaintenanceRow{
				Event: event,
				Label: "unknown product",
			})
			continue
		}
		rows = append(rows, core.MaintenanceRow{
			Event:         event,
			Label:         lifespan.Label,
			Projection:    Project(event, lifespan),
			LifespanKnown: true,
		})
	}
	return rows, nil
}

func expenseRows(expenses []core.Expense) []core.ExpenseRow {
	rows := make([]core.ExpenseRow, 0, len(expenses))
	var running core.Money
	for _, e := range expenses {
		running = running.Add(e.Amount)
		rows = append(rows, core.ExpenseRow{Expense: e, RunningTotal: running})
	}
	return rows
}

func (s *ReportService) invoiceRows(ctx context.Context, invoices []core.Invoice) []core.InvoiceRow {
	rows := make([]core.InvoiceRow, 0, len(invoices))
	var running core.Money
	for _, inv := range invoices {
		running = running.Add(inv.Total)
		name := "unknown supplier"
		if supplier, err := s.repo.GetSupplier(ctx, inv.SupplierID); err == nil {
			name = supplier.Name
		} else {
			slog.WarnContext(ctx, "Supplier lookup failed for invoice",
				log.FieldInvoiceID, inv.ID,
				log.FieldSupplierID, inv.SupplierID,
				log.FieldError, err)
		}
		rows = append(rows, core.InvoiceRow{
			Invoice:      inv,
			SupplierName: name,
			RunningTotal: running,
		})
	}
	return rows
}

// ProjectServiceEvent computes the due point for a single service event.
func (s *ReportService) ProjectServiceEvent(ctx context.Context, eventID int64) (core.Projection, error) {
	event, err := s.repo.GetServiceEvent(ctx, eventID)
	if err != nil {
		return core.Projection{}, fmt.Errorf("get service event %d: %w", eventID, err)
	}
	lifespan, err := s.resolver.ResolveLifespan(ctx, event.ProductID)
	if err != nil {
		// Lifespan unknown: an empty projection, not a failure.
		return core.Projection{}, nil
	}
	return Project(event, lifespan), nil
}

// ObligationState classifies a single obligation against an injected today.
func (s *ReportService) ObligationState(ctx context.Context, obligationID int64, today time.Time) (core.ObligationState, error) {
	obligation, err := s.repo.GetObligation(ctx, obligationID)
	if err != nil {
		return "", fmt.Errorf("get obligation %d: %w", obligationID, err)
	}
	return Classify(obligation, today, s.horizonDays), nil
}

// VehicleCosts totals one vehicle's costs without assembling the full bundle.
func (s *ReportService) VehicleCosts(ctx context.Context, plate string) (core.CostSummary, error) {
	plate = core.NormalizePlate(plate)

	if _, err := s.repo.GetVehicle(ctx, plate); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.CostSummary{}, core.ErrVehicleNotFound
		}
		return core.CostSummary{}, fmt.Errorf("get vehicle %s: %w", plate, err)
	}

	expenses, err := s.repo.ListExpensesByVehicle(ctx, plate)
	if err != nil {
		return core.CostSummary{}, fmt.Errorf("list expenses for %s: %w", plate, err)
	}
	invoices, err := s.repo.ListInvoicesByVehicle(ctx, plate)
	if err != nil {
		return core.CostSummary{}, fmt.Errorf("list invoices for %s: %w", plate, err)
	}

	return Aggregate(plate, expenses, invoices), nil
}
