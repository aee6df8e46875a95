package services

import (
	"testing"

	"fleetplus/internal/core"
)

func TestAggregate(t *testing.T) {
	expenses := []core.Expense{
		{Plate: "AB123CD", Category: "maintenance", Amount: core.Money{Cents: 5000}},
		{Plate: "AB123CD", Category: "fuel", Amount: core.Money{Cents: 3000}},
	}
	invoices := []core.Invoice{
		{SupplierID: 1, Number: "F-1", Plate: "AB123CD", Total: core.Money{Cents: 4050}},
		// Attached to another vehicle: excluded from this summary even if one
		// of the expenses above referenced it.
		{SupplierID: 1, Number: "F-2", Plate: "ZZ999ZZ", Total: core.Money{Cents: 99900}},
	}

	got := Aggregate("ab123cd", expenses, invoices)

	if got.TotalExpenses.Cents != 8000 {
		t.Fatalf("TotalExpenses: got %d want 8000", got.TotalExpenses.Cents)
	}
	if got.TotalInvoices.Cents != 4050 {
		t.Fatalf("TotalInvoices: got %d want 4050", got.TotalInvoices.Cents)
	}
	if got.GrandTotal.Cents != 12050 {
		t.Fatalf("GrandTotal: got %d want 12050", got.GrandTotal.Cents)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate("AB123CD", nil, nil)
	if got.GrandTotal.Cents != 0 || got.TotalExpenses.Cents != 0 || got.TotalInvoices.Cents != 0 {
		t.Fatalf("empty ledgers should total zero, got %+v", got)
	}
	if len(got.ByCategory) != 0 {
		t.Fatalf("expected no category rows, got %d", len(got.ByCategory))
	}
}

func TestAggregateCategories(t *testing.T) {
	expenses := []core.Expense{
		{Category: "fuel", Amount: core.Money{Cents: 1000}},
		{Category: "maintenance", Amount: core.Money{Cents: 4000}},
		{Category: "  ", Amount: core.Money{Cents: 500}},
		{Category: "fuel", Amount: core.Money{Cents: 2000}},
	}

	got := Aggregate("AB123CD", expenses, nil)

	want := []core.CategoryAmount{
		{Name: "maintenance", Amount: core.Money{Cents: 4000}},
		{Name: "fuel", Amount: core.Money{Cents: 3000}},
		{Name: "uncategorized", Amount: core.Money{Cents: 500}},
	}
	if len(got.ByCategory) != len(want) {
		t.Fatalf("got %d categories want %d", len(got.ByCategory), len(want))
	}
	for i, w := range want {
		if got.ByCategory[i] != w {
			t.Fatalf("category %d: got %+v want %+v", i, got.ByCategory[i], w)
		}
	}
}

func TestAggregateZeroCentInvoices(t *testing.T) {
	// Rows imported with a NULL total scan as zero cents and must count as
	// zero, not skew or drop from the summary.
	invoices := []core.Invoice{
		{SupplierID: 1, Number: "F-NULL", Plate: "AB123CD"},
		{SupplierID: 1, Number: "F-1", Plate: "AB123CD", Total: core.Money{Cents: 4050}},
	}

	got := Aggregate("AB123CD", nil, invoices)
	if got.TotalInvoices.Cents != 4050 {
		t.Fatalf("TotalInvoices: got %d want 4050", got.TotalInvoices.Cents)
	}
	if got.GrandTotal.Cents != 4050 {
		t.Fatalf("GrandTotal: got %d want 4050", got.GrandTotal.Cents)
	}
}

func TestAggregateNoDeduplication(t *testing.T) {
	// An expense and its linked invoice both count: the ledgers are
	// independent and meet only at the grand total.
	invoiceID := int64(7)
	expenses := []core.Expense{
		{Plate: "AB123CD", InvoiceID: &invoiceID, Amount: core.Money{Cents: 5000}},
	}
	invoices := []core.Invoice{
		{ID: 7, SupplierID: 1, Number: "F-7", Plate: "AB123CD", Total: core.Money{Cents: 5000}},
	}

	got := Aggregate("AB123CD", expenses, invoices)
	if got.GrandTotal.Cents != 10000 {
		t.Fatalf("GrandTotal: got %d want 10000", got.GrandTotal.Cents)
	}
}
