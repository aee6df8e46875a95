// Package googlesheets mirrors vehicle report bundles to a Google
// Spreadsheet, one sheet tab per vehicle plate.
package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fleetplus/internal/core"
	"fleetplus/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ export.ReportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService initializes a Sheets service using service account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// WriteReport replaces the vehicle's sheet tab content with the current
// bundle. The tab is created on first export.
func (c *Client) WriteReport(ctx context.Context, report core.VehicleReport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheetName := report.Vehicle.Plate
	if err := c.ensureSheet(ctx, sheetName); err != nil {
		return fmt.Errorf("ensure sheet %s: %w", sheetName, err)
	}

	clearRange := fmt.Sprintf("%s!A:G", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheetName, err)
	}

	vr := &gsheet.ValueRange{Values: reportRows(report)}
	writeRange := fmt.Sprintf("%s!A1", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write report to sheet %s: %w", sheetName, err)
	}

	slog.InfoContext(ctx, "Report exported to Google Sheets",
		"plate", report.Vehicle.Plate,
		"rows", len(vr.Values))
	return nil
}

// ensureSheet adds the vehicle tab if the spreadsheet does not have it yet.
func (c *Client) ensureSheet(ctx context.Context, name string) error {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	return nil
}

// reportRows flattens the bundle into spreadsheet rows, one section at a time.
func reportRows(report core.VehicleReport) [][]any {
	v := report.Vehicle
	rows := [][]any{
		{"Vehicle", v.Plate, v.Make, v.Model, v.OdometerKm, v.RegistrationDate},
		{},
		{"Maintenance", "Date", "Odometer (km)", "Next due (km)", "Next due (date)", "Notes"},
	}

	for _, m := range report.Maintenance {
		nextKm := any("-")
		if m.Projection.NextDueKm != nil {
			nextKm = *m.Projection.NextDueKm
		}
		nextDate := any("-")
		if m.Projection.NextDueDate != nil {
			nextDate = core.FormatDate(*m.Projection.NextDueDate)
		}
		rows = append(rows, []any{m.Label, m.Event.ServiceDate, m.Event.OdometerKm, nextKm, nextDate, m.Event.Notes})
	}

	rows = append(rows, []any{}, []any{"Obligation", "Kind", "Start", "Due", "State"})
	for _, o := range report.Obligations {
		rows = append(rows, []any{o.Obligation.Description, string(o.Obligation.Kind),
			o.Obligation.StartDate, o.Obligation.DueDate, string(o.State)})
	}

	rows = append(rows, []any{}, []any{"Expense", "Date", "Category", "Amount", "Running total"})
	for _, e := range report.Expenses {
		rows = append(rows, []any{e.Expense.Concept, e.Expense.Date, e.Expense.Category,
			e.Expense.Amount.Euros(), e.RunningTotal.Euros()})
	}

	rows = append(rows, []any{}, []any{"Invoice", "Supplier", "Issued", "Total", "Running total"})
	for _, inv := range report.Invoices {
		rows = append(rows, []any{inv.Invoice.Number, inv.SupplierName, inv.Invoice.IssueDate,
			inv.Invoice.Total.Euros(), inv.RunningTotal.Euros()})
	}

	rows = append(rows, []any{},
		[]any{"Total expenses", report.Costs.TotalExpenses.Euros()},
		[]any{"Total invoices", report.Costs.TotalInvoices.Euros()},
		[]any{"Grand total", report.Costs.GrandTotal.Euros()})

	return rows
}
