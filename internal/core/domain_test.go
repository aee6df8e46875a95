package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalizePlate(t *testing.T) {
	cases := []struct{ in, out string }{
		{"ab123cd", "AB123CD"},
		{"  1234-XYZ  ", "1234-XYZ"},
		{"", ""},
	}
	for i, tc := range cases {
		if got := NormalizePlate(tc.in); got != tc.out {
			t.Fatalf("case %d: got %q want %q", i, got, tc.out)
		}
	}
}

func TestVehicleValidate(t *testing.T) {
	good := Vehicle{Plate: "AB123CD", Make: "Fiat", Model: "Panda", OdometerKm: 50000, RegistrationDate: "2020-05-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Vehicle{
		{Plate: " ", Make: "Fiat", Model: "Panda", RegistrationDate: "2020-05-01"},
		{Plate: "AB123CD", Make: "", Model: "Panda", RegistrationDate: "2020-05-01"},
		{Plate: "AB123CD", Make: "Fiat", Model: "", RegistrationDate: "2020-05-01"},
		{Plate: "AB123CD", Make: "Fiat", Model: "Panda", OdometerKm: -1, RegistrationDate: "2020-05-01"},
		{Plate: "AB123CD", Make: "Fiat", Model: "Panda", RegistrationDate: "yesterday"},
	}
	for i, v := range bads {
		err := v.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: %v should wrap ErrInvalidInput", i, err)
		}
	}
}

func TestServiceEventValidate(t *testing.T) {
	good := ServiceEvent{Plate: "AB123CD", ProductID: 1, ServiceDate: "15/01/2024", OdometerKm: 50000}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ServiceEvent{
		{Plate: "", ProductID: 1, ServiceDate: "2024-01-15"},
		{Plate: "AB123CD", ProductID: 0, ServiceDate: "2024-01-15"},
		{Plate: "AB123CD", ProductID: 1, ServiceDate: "soon"},
		{Plate: "AB123CD", ProductID: 1, ServiceDate: "2024-01-15", OdometerKm: -5},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestObligationValidate(t *testing.T) {
	// Free-form due dates are accepted on write; only kind and plate are checked.
	good := Obligation{Plate: "AB123CD", Kind: Insurance, DueDate: "whenever"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for i, k := range []ObligationKind{Inspection, Insurance, CirculationTax, OtherKind} {
		if err := (Obligation{Plate: "X", Kind: k}).Validate(); err != nil {
			t.Fatalf("kind case %d: %v", i, err)
		}
	}
	if err := (Obligation{Plate: "X", Kind: "mot"}).Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if err := (Obligation{Plate: "", Kind: Inspection}).Validate(); !errors.Is(err, ErrEmptyPlate) {
		t.Fatalf("expected ErrEmptyPlate, got %v", err)
	}
}

func TestInvoiceValidate(t *testing.T) {
	good := Invoice{SupplierID: 1, Number: "F-2024-001", Total: Money{Cents: 0}}
	if err := good.Validate(); err != nil {
		t.Fatalf("zero total should be valid, got %v", err)
	}

	bads := []Invoice{
		{SupplierID: 0, Number: "F-1"},
		{SupplierID: 1, Number: "  "},
		{SupplierID: 1, Number: "F-1", Total: Money{Cents: -1}},
		{SupplierID: 1, Number: "F-1", IssueDate: "bad date"},
	}
	for i, inv := range bads {
		if err := inv.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Plate: "AB123CD", Date: "2024-02-01", Concept: "Oil change", Amount: Money{Cents: 5000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Plate: "", Date: "2024-02-01", Concept: "x", Amount: Money{Cents: 1}},
		{Plate: "A", Date: "2024-02-01", Concept: " ", Amount: Money{Cents: 1}},
		{Plate: "A", Date: "2024-02-01", Concept: "x", Amount: Money{Cents: -1}},
		{Plate: "A", Date: "", Concept: "x", Amount: Money{Cents: 1}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestConflictError(t *testing.T) {
	err := fmt.Errorf("create vehicle: %w", &ConflictError{Field: "plate"})
	if !IsConflict(err) {
		t.Fatalf("wrapped conflict not detected")
	}
	if IsConflict(ErrNotFound) {
		t.Fatalf("ErrNotFound misreported as conflict")
	}
}
