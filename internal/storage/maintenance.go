package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"fleetplus/internal/core"
)

const serviceEventColumns = "id, plate, product_id, service_date, odometer_km, notes"

// CreateServiceEvent records a maintenance event and, in the same
// transaction, rolls the vehicle odometer forward when the event reading is
// higher than the stored one.
func (r *SQLiteRepository) CreateServiceEvent(ctx context.Context, e core.ServiceEvent) (int64, error) {
	if err := r.exists(ctx, "products", e.ProductID); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create service event: %w", err)
	}
	defer tx.Rollback()

	plate := core.NormalizePlate(e.Plate)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO service_events (plate, product_id, service_date, odometer_km, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		plate, e.ProductID, e.ServiceDate, e.OdometerKm, nullStr(e.Notes))
	if err != nil {
		return 0, fmt.Errorf("create service event: %w", mapWriteErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create service event id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE vehicles
		 SET odometer_km = MAX(odometer_km, ?),
		     sync_status = 'pending', version = version + 1, updated_at = datetime('now')
		 WHERE plate = ?`,
		e.OdometerKm, plate); err != nil {
		return 0, fmt.Errorf("roll odometer forward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create service event: %w", err)
	}

	slog.InfoContext(ctx, "Service event recorded",
		"id", id,
		"plate", plate,
		"product_id", e.ProductID,
		"odometer_km", e.OdometerKm)
	return id, nil
}

func scanServiceEvent(row interface{ Scan(...any) error }) (core.ServiceEvent, error) {
	var e core.ServiceEvent
	var notes sql.NullString
	if err := row.Scan(&e.ID, &e.Plate, &e.ProductID, &e.ServiceDate, &e.OdometerKm, &notes); err != nil {
		return core.ServiceEvent{}, err
	}
	e.Notes = strOf(notes)
	return e, nil
}

func (r *SQLiteRepository) GetServiceEvent(ctx context.Context, id int64) (core.ServiceEvent, error) {
	e, err := scanServiceEvent(r.db.QueryRowContext(ctx,
		`SELECT `+serviceEventColumns+` FROM service_events WHERE id = ?`, id))
	if err != nil {
		return core.ServiceEvent{}, fmt.Errorf("get service event %d: %w", id, one(err))
	}
	return e, nil
}

// ListServiceEventsByVehicle returns events ordered by odometer-at-service,
// id breaking ties.
func (r *SQLiteRepository) ListServiceEventsByVehicle(ctx context.Context, plate string) ([]core.ServiceEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+serviceEventColumns+` FROM service_events
		 WHERE plate = ? ORDER BY odometer_km, id`,
		core.NormalizePlate(plate))
	if err != nil {
		return nil, fmt.Errorf("list service events: %w", err)
	}
	defer rows.Close()

	var events []core.ServiceEvent
	for rows.Next() {
		e, err := scanServiceEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteRepository) UpdateServiceEvent(ctx context.Context, e core.ServiceEvent) error {
	if err := r.exists(ctx, "products", e.ProductID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE service_events
		 SET product_id = ?, service_date = ?, odometer_km = ?, notes = ?
		 WHERE id = ?`,
		e.ProductID, e.ServiceDate, e.OdometerKm, nullStr(e.Notes), e.ID)
	if err != nil {
		return fmt.Errorf("update service event: %w", mapWriteErr(err))
	}
	if err := requireRow(res, "update service event"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, e.Plate)
	return nil
}

func (r *SQLiteRepository) DeleteServiceEvent(ctx context.Context, id int64) error {
	event, err := r.GetServiceEvent(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM service_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete service event: %w", err)
	}
	if err := requireRow(res, "delete service event"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, event.Plate)
	return nil
}

const obligationColumns = "id, plate, kind, description, start_date, due_date, status"

func (r *SQLiteRepository) CreateObligation(ctx context.Context, o core.Obligation) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO obligations (plate, kind, description, start_date, due_date, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		core.NormalizePlate(o.Plate), string(o.Kind), nullStr(o.Description),
		nullStr(o.StartDate), nullStr(o.DueDate), statusOf(o.Status))
	if err != nil {
		return 0, fmt.Errorf("create obligation: %w", mapWriteErr(err))
	}
	r.markVehicleDirty(ctx, o.Plate)
	return res.LastInsertId()
}

// statusOf falls back to the default label so writes never blank the column.
func statusOf(status string) string {
	if status == "" {
		return core.DefaultObligationStatus
	}
	return status
}

func scanObligation(row interface{ Scan(...any) error }) (core.Obligation, error) {
	var o core.Obligation
	var kind string
	var desc, start, due sql.NullString
	if err := row.Scan(&o.ID, &o.Plate, &kind, &desc, &start, &due, &o.Status); err != nil {
		return core.Obligation{}, err
	}
	o.Kind = core.ObligationKind(kind)
	o.Description, o.StartDate, o.DueDate = strOf(desc), strOf(start), strOf(due)
	return o, nil
}

func (r *SQLiteRepository) GetObligation(ctx context.Context, id int64) (core.Obligation, error) {
	o, err := scanObligation(r.db.QueryRowContext(ctx,
		`SELECT `+obligationColumns+` FROM obligations WHERE id = ?`, id))
	if err != nil {
		return core.Obligation{}, fmt.Errorf("get obligation %d: %w", id, one(err))
	}
	return o, nil
}

// ListObligationsByVehicle returns rows in insertion order; due-date ordering
// (unknown dates last) happens in the tracker, where the dates get parsed.
func (r *SQLiteRepository) ListObligationsByVehicle(ctx context.Context, plate string) ([]core.Obligation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+obligationColumns+` FROM obligations WHERE plate = ? ORDER BY id`,
		core.NormalizePlate(plate))
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []core.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		obligations = append(obligations, o)
	}
	return obligations, rows.Err()
}

func (r *SQLiteRepository) UpdateObligation(ctx context.Context, o core.Obligation) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE obligations
		 SET kind = ?, description = ?, start_date = ?, due_date = ?, status = ?
		 WHERE id = ?`,
		string(o.Kind), nullStr(o.Description), nullStr(o.StartDate), nullStr(o.DueDate),
		statusOf(o.Status), o.ID)
	if err != nil {
		return fmt.Errorf("update obligation: %w", mapWriteErr(err))
	}
	if err := requireRow(res, "update obligation"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, o.Plate)
	return nil
}

func (r *SQLiteRepository) DeleteObligation(ctx context.Context, id int64) error {
	obligation, err := r.GetObligation(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM obligations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete obligation: %w", err)
	}
	if err := requireRow(res, "delete obligation"); err != nil {
		return err
	}
	r.markVehicleDirty(ctx, obligation.Plate)
	return nil
}
