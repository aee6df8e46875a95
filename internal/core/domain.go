package core

import (
	"errors"
	"fmt"
	"strings"
)

// ObligationKind is the fixed set of recurring legal obligations a vehicle carries.
const (
	Inspection     ObligationKind = "inspection"
	Insurance      ObligationKind = "insurance"
	CirculationTax ObligationKind = "circulation_tax"
	OtherKind      ObligationKind = "other"
)

// DefaultObligationStatus is the stored status label new obligations get.
const DefaultObligationStatus = "current"

type (
	ObligationKind string

	Money struct {
		Cents int64 `json:"cents"`
	}

	Vehicle struct {
		Plate            string `json:"plate"`
		Make             string `json:"make"`
		Model            string `json:"model"`
		OdometerKm       int64  `json:"odometer_km"`
		RegistrationDate string `json:"registration_date"`
	}

	ComponentType struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}

	Product struct {
		ID              int64  `json:"id"`
		ComponentTypeID int64  `json:"component_type_id"`
		Make            string `json:"make,omitempty"`
		Model           string `json:"model,omitempty"`
		SubType         string `json:"sub_type,omitempty"`
		Description     string `json:"description,omitempty"`
		DistanceLifeKm  *int64 `json:"distance_life_km,omitempty"`
		TimeLifeMonths  *int64 `json:"time_life_months,omitempty"`
	}

	ServiceEvent struct {
		ID          int64  `json:"id"`
		Plate       string `json:"plate"`
		ProductID   int64  `json:"product_id"`
		ServiceDate string `json:"service_date"`
		OdometerKm  int64  `json:"odometer_km"`
		Notes       string `json:"notes,omitempty"`
	}

	Obligation struct {
		ID          int64          `json:"id"`
		Plate       string         `json:"plate"`
		Kind        ObligationKind `json:"kind"`
		Description string         `json:"description,omitempty"`
		StartDate   string         `json:"start_date,omitempty"`
		DueDate     string         `json:"due_date,omitempty"`
		// Status is the stored lifecycle label, defaulting to "current".
		// Report classification is always computed from the due date; the
		// stored label only records what the user last set.
		Status string `json:"status,omitempty"`
	}

	Supplier struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		TaxID       string `json:"tax_id,omitempty"`
		Phone       string `json:"phone,omitempty"`
		Email       string `json:"email,omitempty"`
		Address     string `json:"address,omitempty"`
		Description string `json:"description,omitempty"`
	}

	Invoice struct {
		ID         int64  `json:"id"`
		SupplierID int64  `json:"supplier_id"`
		Number     string `json:"number"`
		IssueDate  string `json:"issue_date,omitempty"`
		Total      Money  `json:"total"`
		Plate      string `json:"plate,omitempty"`
	}

	Expense struct {
		ID           int64  `json:"id"`
		Plate        string `json:"plate"`
		InvoiceID    *int64 `json:"invoice_id,omitempty"`
		Date         string `json:"date"`
		Category     string `json:"category,omitempty"`
		Concept      string `json:"concept"`
		Amount       Money  `json:"amount"`
		Observations string `json:"observations,omitempty"`
	}
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInvalidInput is the root of every validation sentinel, so callers can
	// match the whole family with one errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrInvalidOdometer = fmt.Errorf("%w: invalid odometer reading", ErrInvalidInput)
	ErrInvalidKind     = fmt.Errorf("%w: invalid obligation kind", ErrInvalidInput)
	ErrEmptyPlate      = fmt.Errorf("%w: empty plate", ErrInvalidInput)
	ErrEmptyName       = fmt.Errorf("%w: empty name", ErrInvalidInput)
	ErrEmptyConcept    = fmt.Errorf("%w: empty concept", ErrInvalidInput)
)

// ConflictError reports a uniqueness violation on a single field, e.g. a
// duplicate plate or a duplicate (supplier, invoice number) pair.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "conflict on " + e.Field
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// NormalizePlate canonicalizes a registration code for storage and lookup.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (v Vehicle) Validate() error {
	if NormalizePlate(v.Plate) == "" {
		return ErrEmptyPlate
	}
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		return fmt.Errorf("%w: make and model are required", ErrInvalidInput)
	}
	if v.OdometerKm < 0 {
		return ErrInvalidOdometer
	}
	if _, err := ParseDate(v.RegistrationDate); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (ct ComponentType) Validate() error {
	if strings.TrimSpace(ct.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (p Product) Validate() error {
	if p.ComponentTypeID <= 0 {
		return fmt.Errorf("%w: component type is required", ErrInvalidInput)
	}
	if p.DistanceLifeKm != nil && *p.DistanceLifeKm < 0 {
		return fmt.Errorf("%w: distance life cannot be negative", ErrInvalidInput)
	}
	if p.TimeLifeMonths != nil && *p.TimeLifeMonths < 0 {
		return fmt.Errorf("%w: time life cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (se ServiceEvent) Validate() error {
	if NormalizePlate(se.Plate) == "" {
		return ErrEmptyPlate
	}
	if se.ProductID <= 0 {
		return fmt.Errorf("%w: product is required", ErrInvalidInput)
	}
	if se.OdometerKm < 0 {
		return ErrInvalidOdometer
	}
	if _, err := ParseDate(se.ServiceDate); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (k ObligationKind) Validate() error {
	switch k {
	case Inspection, Insurance, CirculationTax, OtherKind:
		return nil
	}
	return ErrInvalidKind
}

func (o Obligation) Validate() error {
	if NormalizePlate(o.Plate) == "" {
		return ErrEmptyPlate
	}
	if err := o.Kind.Validate(); err != nil {
		return err
	}
	// Start and due dates stay free-form on write; a row whose due date does
	// not parse classifies as unknown at report time instead of being rejected.
	return nil
}

func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (i Invoice) Validate() error {
	if i.SupplierID <= 0 {
		return fmt.Errorf("%w: supplier is required", ErrInvalidInput)
	}
	if strings.TrimSpace(i.Number) == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvalidInput)
	}
	if err := i.Total.Validate(); err != nil {
		return err
	}
	if i.IssueDate != "" {
		if _, err := ParseDate(i.IssueDate); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

func (e Expense) Validate() error {
	if NormalizePlate(e.Plate) == "" {
		return ErrEmptyPlate
	}
	if strings.TrimSpace(e.Concept) == "" {
		return ErrEmptyConcept
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseDate(e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
