package core

import "time"

// Obligation states derived by comparing the due date to an injected "today".
const (
	StateExpired  ObligationState = "expired"
	StateExpiring ObligationState = "expiring"
	StateCurrent  ObligationState = "current"
	StateUnknown  ObligationState = "unknown"
)

type ObligationState string

// Lifespan is a product's replacement horizon as resolved from the catalog.
// Either bound may be absent independently; a product with both unset never
// produces a due projection.
type Lifespan struct {
	DistanceKm *int64 `json:"distance_km,omitempty"`
	TimeMonths *int64 `json:"time_months,omitempty"`
	// Label is the human-readable "component type - make model (subtype)"
	// string report rows display.
	Label string `json:"label"`
}

// Projection is the computed due point for one service event.
type Projection struct {
	NextDueKm   *int64     `json:"next_due_km,omitempty"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// MaintenanceRow pairs a service event with its due-point projection.
// LifespanKnown is false when the product was deleted out from under the
// event; the row then carries a placeholder label and an empty projection.
type MaintenanceRow struct {
	Event         ServiceEvent `json:"event"`
	Label         string       `json:"label"`
	Projection    Projection   `json:"projection"`
	LifespanKnown bool         `json:"lifespan_known"`
}

// ObligationRow pairs an obligation with its computed state.
type ObligationRow struct {
	Obligation Obligation      `json:"obligation"`
	State      ObligationState `json:"state"`
}

// ExpenseRow carries the running expense total up to and including this row.
type ExpenseRow struct {
	Expense      Expense `json:"expense"`
	RunningTotal Money   `json:"running_total"`
}

// InvoiceRow carries the supplier name resolved at assembly time and the
// running invoice total. SupplierName is a placeholder when the supplier row
// is gone.
type InvoiceRow struct {
	Invoice      Invoice `json:"invoice"`
	SupplierName string  `json:"supplier_name"`
	RunningTotal Money   `json:"running_total"`
}

// CategoryAmount is an expense subtotal for one category.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// CostSummary is the consolidated money view of one vehicle: the expense and
// invoice ledgers are kept independent and merged only at the grand total.
type CostSummary struct {
	TotalExpenses Money            `json:"total_expenses"`
	TotalInvoices Money            `json:"total_invoices"`
	GrandTotal    Money            `json:"grand_total"`
	ByCategory    []CategoryAmount `json:"by_category,omitempty"`
}

// VehicleReport is the full vehicle-scoped bundle handed to presentation and
// export consumers.
type VehicleReport struct {
	Vehicle     Vehicle          `json:"vehicle"`
	GeneratedAt time.Time        `json:"generated_at"`
	Maintenance []MaintenanceRow `json:"maintenance"`
	Obligations []ObligationRow  `json:"obligations"`
	Expenses    []ExpenseRow     `json:"expenses"`
	Invoices    []InvoiceRow     `json:"invoices"`
	Costs       CostSummary      `json:"costs"`
}
