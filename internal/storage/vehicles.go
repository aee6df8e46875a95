package storage

import (
	"context"
	"fmt"
	"log/slog"

	"fleetplus/internal/core"
)

const vehicleColumns = "plate, make, model, odometer_km, registration_date"

func (r *SQLiteRepository) CreateVehicle(ctx context.Context, v core.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (plate, make, model, odometer_km, registration_date)
		 VALUES (?, ?, ?, ?, ?)`,
		core.NormalizePlate(v.Plate), v.Make, v.Model, v.OdometerKm, v.RegistrationDate)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", mapWriteErr(err))
	}

	slog.InfoContext(ctx, "Vehicle created",
		"plate", core.NormalizePlate(v.Plate),
		"make", v.Make,
		"model", v.Model)
	return nil
}

func (r *SQLiteRepository) GetVehicle(ctx context.Context, plate string) (core.Vehicle, error) {
	var v core.Vehicle
	err := r.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE plate = ?`,
		core.NormalizePlate(plate)).
		Scan(&v.Plate, &v.Make, &v.Model, &v.OdometerKm, &v.RegistrationDate)
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("get vehicle %s: %w", plate, one(err))
	}
	return v, nil
}

func (r *SQLiteRepository) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY plate`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []core.Vehicle
	for rows.Next() {
		var v core.Vehicle
		if err := rows.Scan(&v.Plate, &v.Make, &v.Model, &v.OdometerKm, &v.RegistrationDate); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *SQLiteRepository) UpdateVehicle(ctx context.Context, v core.Vehicle) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles
		 SET make = ?, model = ?, odometer_km = ?, registration_date = ?,
		     sync_status = 'pending', version = version + 1, updated_at = datetime('now')
		 WHERE plate = ?`,
		v.Make, v.Model, v.OdometerKm, v.RegistrationDate, core.NormalizePlate(v.Plate))
	if err != nil {
		return fmt.Errorf("update vehicle: %w", mapWriteErr(err))
	}
	return requireRow(res, "update vehicle")
}

// UpdateOdometer sets a new odometer reading. Readings never move backwards
// through this path; a lower value is ignored and logged.
func (r *SQLiteRepository) UpdateOdometer(ctx context.Context, plate string, km int64) error {
	plate = core.NormalizePlate(plate)
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles
		 SET odometer_km = MAX(odometer_km, ?),
		     sync_status = 'pending', version = version + 1, updated_at = datetime('now')
		 WHERE plate = ?`,
		km, plate)
	if err != nil {
		return fmt.Errorf("update odometer: %w", err)
	}
	slog.InfoContext(ctx, "Odometer updated", "plate", plate, "odometer_km", km)
	return requireRow(res, "update odometer")
}

func (r *SQLiteRepository) DeleteVehicle(ctx context.Context, plate string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicles WHERE plate = ?`, core.NormalizePlate(plate))
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return requireRow(res, "delete vehicle")
}

// VehicleVersion returns the current sync version of a vehicle row.
func (r *SQLiteRepository) VehicleVersion(ctx context.Context, plate string) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM vehicles WHERE plate = ?`, core.NormalizePlate(plate)).
		Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("get vehicle version: %w", one(err))
	}
	return version, nil
}

// PendingSyncVehicle is the minimal row the export worker's backup scan needs.
type PendingSyncVehicle struct {
	Plate   string
	Version int64
}

func (r *SQLiteRepository) ListPendingSyncVehicles(ctx context.Context, limit int) ([]PendingSyncVehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT plate, version FROM vehicles WHERE sync_status = 'pending' ORDER BY updated_at LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync vehicles: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncVehicle
	for rows.Next() {
		var p PendingSyncVehicle
		if err := rows.Scan(&p.Plate, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending vehicle: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *SQLiteRepository) MarkVehicleSynced(ctx context.Context, plate string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET sync_status = 'synced' WHERE plate = ?`, core.NormalizePlate(plate))
	if err != nil {
		return fmt.Errorf("mark vehicle synced: %w", err)
	}
	slog.InfoContext(ctx, "Vehicle marked as synced", "plate", core.NormalizePlate(plate))
	return nil
}

func (r *SQLiteRepository) MarkVehicleSyncError(ctx context.Context, plate string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET sync_status = 'error' WHERE plate = ?`, core.NormalizePlate(plate))
	if err != nil {
		return fmt.Errorf("mark vehicle sync error: %w", err)
	}
	slog.WarnContext(ctx, "Vehicle marked with sync error", "plate", core.NormalizePlate(plate))
	return nil
}

// markVehicleDirty flags a vehicle for re-export after a dependent row changed.
func (r *SQLiteRepository) markVehicleDirty(ctx context.Context, plate string) {
	if plate == "" {
		return
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles
		 SET sync_status = 'pending', version = version + 1, updated_at = datetime('now')
		 WHERE plate = ?`,
		core.NormalizePlate(plate))
	if err != nil {
		slog.WarnContext(ctx, "Failed to flag vehicle for re-export",
			"plate", plate, "error", err)
	}
}

func requireRow(res interface{ RowsAffected() (int64, error) }, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
