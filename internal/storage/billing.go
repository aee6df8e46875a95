package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"fleetplus/internal/core"
)

const supplierColumns = "id, name, tax_id, phone, email, address, description"

func (r *SQLiteRepository) CreateSupplier(ctx context.Context, s core.Supplier) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO suppliers (name, tax_id, phone, email, address, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.Name, nullStr(s.TaxID), nullStr(s.Phone), nullStr(s.Email),
		nullStr(s.Address), nullStr(s.Description))
	if err != nil {
		return 0, fmt.Errorf("create supplier: %w", mapWriteErr(err))
	}
	return res.LastInsertId()
}

func scanSupplier(row interface{ Scan(...any) error }) (core.Supplier, error) {
	var s core.Supplier
	var taxID, phone, email, addr, desc sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &taxID, &phone, &email, &addr, &desc); err != nil {
		return core.Supplier{}, err
	}
	s.TaxID, s.Phone, s.Email = strOf(taxID), strOf(phone), strOf(email)
	s.Address, s.Description = strOf(addr), strOf(desc)
	return s, nil
}

func (r *SQLiteRepository) GetSupplier(ctx context.Context, id int64) (core.Supplier, error) {
	s, err := scanSupplier(r.db.QueryRowContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id))
	if err != nil {
		return core.Supplier{}, fmt.Errorf("get supplier %d: %w", id, one(err))
	}
	return s, nil
}

func (r *SQLiteRepository) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []core.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *SQLiteRepository) UpdateSupplier(ctx context.Context, s core.Supplier) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE suppliers
		 SET name = ?, tax_id = ?, phone = ?, email = ?, address = ?, description = ?
		 WHERE id = ?`,
		s.Name, nullStr(s.TaxID), nullStr(s.Phone), nullStr(s.Email),
		nullStr(s.Address), nullStr(s.Description), s.ID)
	if err != nil {
		return fmt.Errorf("update supplier: %w", mapWriteErr(err))
	}
	return requireRow(res, "update supplier")
}

func (r *SQLiteRepository) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return requireRow(res, "delete supplier")
}

const invoiceColumns = "id, supplier_id, number, issue_date, total_cents, plate"

func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) (int64, error) {
	if err := r.exists(ctx, "suppliers", inv.SupplierID); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (supplier_id, number, issue_date, total_cents, plate)
		 VALUES (?, ?, ?, ?, ?)`,
		inv.SupplierID, inv.Number, nullStr(inv.IssueDate), inv.Total.Cents,
		nullStr(core.NormalizePlate(inv.Plate)))
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", mapWriteErr(err))
	}
	r.markVehicleDirty(ctx, inv.Plate)
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create invoice id: %w", err)
	}

	slog.InfoContext(ctx, "Invoice saved",
		"id", id,
		"supplier_id", inv.SupplierID,
		"number", inv.Number,
		"total_cents", inv.Total.Cents)
	return id, nil
}

func scanInvoice(row interface{ Scan(...any) error }) (core.Invoice, error) {
	var inv core.Invoice
	var issue, plate sql.NullString
	var total sql.NullInt64
	if err := row.Scan(&inv.ID, &inv.SupplierID, &inv.Number, &issue, &total, &plate); err != nil {
		return core.Invoice{}, err
	}
	inv.IssueDate, inv.Plate = strOf(issue), strOf(plate)
	// NULL totals count as zero in every aggregation
	inv.Total = core.Money{Cents: total.Int64}
	return inv, nil
}

func (r *SQLiteRepository) GetInvoice(ctx context.Context, id int64) (core.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id))
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice %d: %w", id, one(err))
	}
	return inv, nil
}

func (r *SQLiteRepository) ListInvoicesByVehicle(ctx context.Context, plate string) ([]core.Invoice, error) {
	return r.listInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE plate = ? ORDER BY issue_date, id`,
		core.NormalizePlate(plate))
}

func (r *SQLiteRepository) ListInvoicesBySupplier(ctx context.Context, supplierID int64) ([]core.Invoice, error) {
	return r.listInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE supplier_id = ? ORDER BY issue_date, id`,
		supplierID)
}

func (r *SQLiteRepository) listInvoices(ctx context.Context, query string, args ...any) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *SQLiteRepository) UpdateInvoice(ctx context.Context, inv core.Invoice) error {
	if err := r.exists(ctx, "suppliers", inv.SupplierID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		 SET supplier_id = ?, number = ?, issue_date = ?, total_cents = ?, plate = ?
		 WHERE id = ?`,
		inv.SupplierID, inv.Number, nullStr(inv.IssueDate), inv.Total.Cents,
		nullStr(core.NormalizePlate(inv.Plate)), inv.ID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", mapWriteErr(err))
	}
	if err := requireRow(res, "update invoice"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, inv.Plate)
	return nil
}

func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id int64) error {
	invoice, err := r.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if err := requireRow(res, "delete invoice"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, invoice.Plate)
	return nil
}

const expenseColumns = "id, plate, invoice_id, date, category, concept, amount_cents, observations"

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if e.InvoiceID != nil {
		if err := r.exists(ctx, "invoices", *e.InvoiceID); err != nil {
			return 0, err
		}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (plate, invoice_id, date, category, concept, amount_cents, observations)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		core.NormalizePlate(e.Plate), e.InvoiceID, e.Date, nullStr(e.Category),
		e.Concept, e.Amount.Cents, nullStr(e.Observations))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", mapWriteErr(err))
	}
	r.markVehicleDirty(ctx, e.Plate)
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"plate", core.NormalizePlate(e.Plate),
		"concept", e.Concept,
		"amount_cents", e.Amount.Cents)
	return id, nil
}

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	var invoiceID sql.NullInt64
	var category, obs sql.NullString
	var amount sql.NullInt64
	if err := row.Scan(&e.ID, &e.Plate, &invoiceID, &e.Date, &category, &e.Concept, &amount, &obs); err != nil {
		return core.Expense{}, err
	}
	if invoiceID.Valid {
		e.InvoiceID = &invoiceID.Int64
	}
	e.Category, e.Observations = strOf(category), strOf(obs)
	e.Amount = core.Money{Cents: amount.Int64}
	return e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, one(err))
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpensesByVehicle(ctx context.Context, plate string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE plate = ? ORDER BY date, id`,
		core.NormalizePlate(plate))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if e.InvoiceID != nil {
		if err := r.exists(ctx, "invoices", *e.InvoiceID); err != nil {
			return err
		}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET invoice_id = ?, date = ?, category = ?, concept = ?, amount_cents = ?, observations = ?
		 WHERE id = ?`,
		e.InvoiceID, e.Date, nullStr(e.Category), e.Concept, e.Amount.Cents,
		nullStr(e.Observations), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", mapWriteErr(err))
	}
	if err := requireRow(res, "update expense"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, e.Plate)
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	expense, err := r.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := requireRow(res, "delete expense"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, expense.Plate)
	return nil
}
