package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fleetplus/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateVehicle(t *testing.T, repo *SQLiteRepository, plate string) {
	t.Helper()
	err := repo.CreateVehicle(context.Background(), core.Vehicle{
		Plate: plate, Make: "Fiat", Model: "Panda",
		OdometerKm: 50000, RegistrationDate: "2020-05-01",
	})
	if err != nil {
		t.Fatalf("create vehicle %s: %v", plate, err)
	}
}

func mustCreateProduct(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	ctx := context.Background()
	ctID, err := repo.CreateComponentType(ctx, core.ComponentType{Name: "Oil filter"})
	if err != nil {
		t.Fatalf("create component type: %v", err)
	}
	life := int64(10000)
	months := int64(6)
	pID, err := repo.CreateProduct(ctx, core.Product{
		ComponentTypeID: ctID, Make: "Bosch", Model: "P7100",
		DistanceLifeKm: &life, TimeLifeMonths: &months,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return pID
}

func TestVehicleCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateVehicle(t, repo, "ab123cd")

	// Plates are normalized on write and on lookup.
	v, err := repo.GetVehicle(ctx, "Ab123Cd")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.Plate != "AB123CD" {
		t.Fatalf("plate: got %q want AB123CD", v.Plate)
	}

	v.Model = "Panda Cross"
	if err := repo.UpdateVehicle(ctx, v); err != nil {
		t.Fatalf("update vehicle: %v", err)
	}
	v, _ = repo.GetVehicle(ctx, "AB123CD")
	if v.Model != "Panda Cross" {
		t.Fatalf("model: got %q", v.Model)
	}

	if err := repo.DeleteVehicle(ctx, "AB123CD"); err != nil {
		t.Fatalf("delete vehicle: %v", err)
	}
	if _, err := repo.GetVehicle(ctx, "AB123CD"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVehicleDuplicatePlate(t *testing.T) {
	repo := newTestRepo(t)
	mustCreateVehicle(t, repo, "AB123CD")

	err := repo.CreateVehicle(context.Background(), core.Vehicle{
		Plate: "ab123cd", Make: "Seat", Model: "Ibiza",
		RegistrationDate: "2021-01-01",
	})
	if !core.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateOdometerNeverMovesBackwards(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")

	if err := repo.UpdateOdometer(ctx, "AB123CD", 60000); err != nil {
		t.Fatalf("raise odometer: %v", err)
	}
	if err := repo.UpdateOdometer(ctx, "AB123CD", 30000); err != nil {
		t.Fatalf("lower reading should be absorbed: %v", err)
	}

	v, _ := repo.GetVehicle(ctx, "AB123CD")
	if v.OdometerKm != 60000 {
		t.Fatalf("odometer: got %d want 60000", v.OdometerKm)
	}
}

func TestComponentTypeNameConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateComponentType(ctx, core.ComponentType{Name: "Brake pads"}); err != nil {
		t.Fatalf("create component type: %v", err)
	}
	// Case-insensitive uniqueness.
	if _, err := repo.CreateComponentType(ctx, core.ComponentType{Name: "brake PADS"}); !core.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProductLifespanRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pID := mustCreateProduct(t, repo)
	p, err := repo.GetProduct(ctx, pID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if p.DistanceLifeKm == nil || *p.DistanceLifeKm != 10000 {
		t.Fatalf("distance life: got %v", p.DistanceLifeKm)
	}
	if p.TimeLifeMonths == nil || *p.TimeLifeMonths != 6 {
		t.Fatalf("time life: got %v", p.TimeLifeMonths)
	}

	// Absent lifespans stay NULL and come back nil.
	ctID := p.ComponentTypeID
	openEndedID, err := repo.CreateProduct(ctx, core.Product{ComponentTypeID: ctID, Make: "NGK", Model: "BKR6E"})
	if err != nil {
		t.Fatalf("create open-ended product: %v", err)
	}
	openEnded, _ := repo.GetProduct(ctx, openEndedID)
	if openEnded.DistanceLifeKm != nil || openEnded.TimeLifeMonths != nil {
		t.Fatalf("expected nil lifespans, got %+v", openEnded)
	}
}

func TestCreateServiceEventRollsOdometerForward(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")
	pID := mustCreateProduct(t, repo)

	if _, err := repo.CreateServiceEvent(ctx, core.ServiceEvent{
		Plate: "AB123CD", ProductID: pID, ServiceDate: "2024-01-15", OdometerKm: 55000,
	}); err != nil {
		t.Fatalf("create service event: %v", err)
	}

	v, _ := repo.GetVehicle(ctx, "AB123CD")
	if v.OdometerKm != 55000 {
		t.Fatalf("odometer after event: got %d want 55000", v.OdometerKm)
	}

	// A historical event with a lower reading leaves the odometer alone.
	if _, err := repo.CreateServiceEvent(ctx, core.ServiceEvent{
		Plate: "AB123CD", ProductID: pID, ServiceDate: "2023-01-15", OdometerKm: 40000,
	}); err != nil {
		t.Fatalf("create historical event: %v", err)
	}
	v, _ = repo.GetVehicle(ctx, "AB123CD")
	if v.OdometerKm != 55000 {
		t.Fatalf("odometer after historical event: got %d want 55000", v.OdometerKm)
	}
}

func TestCreateServiceEventUnknownProduct(t *testing.T) {
	repo := newTestRepo(t)
	mustCreateVehicle(t, repo, "AB123CD")

	_, err := repo.CreateServiceEvent(context.Background(), core.ServiceEvent{
		Plate: "AB123CD", ProductID: 999, ServiceDate: "2024-01-15", OdometerKm: 55000,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListServiceEventsOrderedByOdometer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")
	pID := mustCreateProduct(t, repo)

	for _, km := range []int64{60000, 40000, 50000} {
		if _, err := repo.CreateServiceEvent(ctx, core.ServiceEvent{
			Plate: "AB123CD", ProductID: pID, ServiceDate: "2024-01-15", OdometerKm: km,
		}); err != nil {
			t.Fatalf("create event at %d: %v", km, err)
		}
	}

	events, err := repo.ListServiceEventsByVehicle(ctx, "AB123CD")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	want := []int64{40000, 50000, 60000}
	for i, km := range want {
		if events[i].OdometerKm != km {
			t.Fatalf("position %d: got %d want %d", i, events[i].OdometerKm, km)
		}
	}
}

func TestObligationFreeFormDueDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")

	id, err := repo.CreateObligation(ctx, core.Obligation{
		Plate: "AB123CD", Kind: core.Inspection, DueDate: "next spring",
	})
	if err != nil {
		t.Fatalf("create obligation: %v", err)
	}
	o, err := repo.GetObligation(ctx, id)
	if err != nil {
		t.Fatalf("get obligation: %v", err)
	}
	if o.DueDate != "next spring" {
		t.Fatalf("due date stored verbatim: got %q", o.DueDate)
	}
}

func TestObligationStatusDefaultsAndPersists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")

	id, err := repo.CreateObligation(ctx, core.Obligation{
		Plate: "AB123CD", Kind: core.Insurance, DueDate: "2024-06-01",
	})
	if err != nil {
		t.Fatalf("create obligation: %v", err)
	}
	o, err := repo.GetObligation(ctx, id)
	if err != nil {
		t.Fatalf("get obligation: %v", err)
	}
	if o.Status != core.DefaultObligationStatus {
		t.Fatalf("status default: got %q, want %q", o.Status, core.DefaultObligationStatus)
	}

	o.Status = "fulfilled"
	if err := repo.UpdateObligation(ctx, o); err != nil {
		t.Fatalf("update obligation: %v", err)
	}
	o, err = repo.GetObligation(ctx, id)
	if err != nil {
		t.Fatalf("get obligation after update: %v", err)
	}
	if o.Status != "fulfilled" {
		t.Fatalf("status after update: got %q", o.Status)
	}
	listed, err := repo.ListObligationsByVehicle(ctx, "AB123CD")
	if err != nil {
		t.Fatalf("list obligations: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != "fulfilled" {
		t.Fatalf("listed status: got %+v", listed)
	}
}

func TestSupplierTaxIDConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateSupplier(ctx, core.Supplier{Name: "Garage Rossi", TaxID: "IT123"}); err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	if _, err := repo.CreateSupplier(ctx, core.Supplier{Name: "Garage Bianchi", TaxID: "IT123"}); !core.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	// Empty tax ids are stored as NULL and never collide.
	if _, err := repo.CreateSupplier(ctx, core.Supplier{Name: "A"}); err != nil {
		t.Fatalf("create supplier without tax id: %v", err)
	}
	if _, err := repo.CreateSupplier(ctx, core.Supplier{Name: "B"}); err != nil {
		t.Fatalf("second supplier without tax id: %v", err)
	}
}

func TestInvoiceNumberUniquePerSupplier(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s1, _ := repo.CreateSupplier(ctx, core.Supplier{Name: "Garage Rossi"})
	s2, _ := repo.CreateSupplier(ctx, core.Supplier{Name: "Garage Bianchi"})

	if _, err := repo.CreateInvoice(ctx, core.Invoice{SupplierID: s1, Number: "F-1"}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := repo.CreateInvoice(ctx, core.Invoice{SupplierID: s1, Number: "F-1"}); !core.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	// Same number under another supplier is fine.
	if _, err := repo.CreateInvoice(ctx, core.Invoice{SupplierID: s2, Number: "F-1"}); err != nil {
		t.Fatalf("same number, other supplier: %v", err)
	}
}

func TestInvoiceNullTotalReadsAsZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")

	supplierID, err := repo.CreateSupplier(ctx, core.Supplier{Name: "Garage Rossi"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	// Imported rows can carry a NULL total; the Go write path always stores a
	// concrete value, so seed the row directly.
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO invoices (supplier_id, number, issue_date, total_cents, plate)
		 VALUES (?, ?, ?, NULL, ?)`,
		supplierID, "F-NULL", "2024-01-10", "AB123CD")
	if err != nil {
		t.Fatalf("insert invoice with null total: %v", err)
	}
	id, _ := res.LastInsertId()

	inv, err := repo.GetInvoice(ctx, id)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if inv.Total.Cents != 0 {
		t.Fatalf("null total: got %d cents, want 0", inv.Total.Cents)
	}

	listed, err := repo.ListInvoicesByVehicle(ctx, "AB123CD")
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(listed) != 1 || listed[0].Total.Cents != 0 {
		t.Fatalf("listed null total: got %+v", listed)
	}
}

func TestInvoiceUnknownSupplier(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateInvoice(context.Background(), core.Invoice{SupplierID: 999, Number: "F-1"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExpenseUnknownInvoice(t *testing.T) {
	repo := newTestRepo(t)
	mustCreateVehicle(t, repo, "AB123CD")

	missing := int64(999)
	_, err := repo.CreateExpense(context.Background(), core.Expense{
		Plate: "AB123CD", InvoiceID: &missing, Date: "2024-01-15",
		Concept: "Oil", Amount: core.Money{Cents: 5000},
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListExpensesOrderedByDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")

	for _, date := range []string{"2024-03-01", "2024-01-01", "2024-02-01"} {
		if _, err := repo.CreateExpense(ctx, core.Expense{
			Plate: "AB123CD", Date: date, Concept: "x", Amount: core.Money{Cents: 100},
		}); err != nil {
			t.Fatalf("create expense %s: %v", date, err)
		}
	}

	expenses, err := repo.ListExpensesByVehicle(ctx, "AB123CD")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	want := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	for i, date := range want {
		if expenses[i].Date != date {
			t.Fatalf("position %d: got %s want %s", i, expenses[i].Date, date)
		}
	}
}

func TestDeleteVehicleCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")
	pID := mustCreateProduct(t, repo)

	if _, err := repo.CreateServiceEvent(ctx, core.ServiceEvent{
		Plate: "AB123CD", ProductID: pID, ServiceDate: "2024-01-15", OdometerKm: 55000,
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := repo.CreateExpense(ctx, core.Expense{
		Plate: "AB123CD", Date: "2024-01-15", Concept: "Oil", Amount: core.Money{Cents: 100},
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := repo.DeleteVehicle(ctx, "AB123CD"); err != nil {
		t.Fatalf("delete vehicle: %v", err)
	}

	events, _ := repo.ListServiceEventsByVehicle(ctx, "AB123CD")
	if len(events) != 0 {
		t.Fatalf("events not cascaded: %d left", len(events))
	}
	expenses, _ := repo.ListExpensesByVehicle(ctx, "AB123CD")
	if len(expenses) != 0 {
		t.Fatalf("expenses not cascaded: %d left", len(expenses))
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreateVehicle(t, repo, "AB123CD")

	// Fresh vehicles start pending.
	pending, err := repo.ListPendingSyncVehicles(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Plate != "AB123CD" {
		t.Fatalf("pending: got %+v", pending)
	}

	if err := repo.MarkVehicleSynced(ctx, "AB123CD"); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = repo.ListPendingSyncVehicles(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending after sync, got %d", len(pending))
	}

	// A dependent-row mutation flags the vehicle again and bumps the version.
	before, _ := repo.VehicleVersion(ctx, "AB123CD")
	if _, err := repo.CreateObligation(ctx, core.Obligation{Plate: "AB123CD", Kind: core.Insurance, DueDate: "2025-01-01"}); err != nil {
		t.Fatalf("create obligation: %v", err)
	}
	after, _ := repo.VehicleVersion(ctx, "AB123CD")
	if after != before+1 {
		t.Fatalf("version: got %d want %d", after, before+1)
	}
	pending, _ = repo.ListPendingSyncVehicles(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("expected vehicle pending again, got %d", len(pending))
	}
}
