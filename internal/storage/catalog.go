package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fleetplus/internal/core"
)

func (r *SQLiteRepository) CreateComponentType(ctx context.Context, ct core.ComponentType) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO component_types (name, description) VALUES (?, ?)`,
		ct.Name, nullStr(ct.Description))
	if err != nil {
		return 0, fmt.Errorf("create component type: %w", mapWriteErr(err))
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetComponentType(ctx context.Context, id int64) (core.ComponentType, error) {
	var ct core.ComponentType
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM component_types WHERE id = ?`, id).
		Scan(&ct.ID, &ct.Name, &desc)
	if err != nil {
		return core.ComponentType{}, fmt.Errorf("get component type %d: %w", id, one(err))
	}
	ct.Description = strOf(desc)
	return ct, nil
}

func (r *SQLiteRepository) ListComponentTypes(ctx context.Context) ([]core.ComponentType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM component_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list component types: %w", err)
	}
	defer rows.Close()

	var types []core.ComponentType
	for rows.Next() {
		var ct core.ComponentType
		var desc sql.NullString
		if err := rows.Scan(&ct.ID, &ct.Name, &desc); err != nil {
			return nil, fmt.Errorf("scan component type: %w", err)
		}
		ct.Description = strOf(desc)
		types = append(types, ct)
	}
	return types, rows.Err()
}

func (r *SQLiteRepository) UpdateComponentType(ctx context.Context, ct core.ComponentType) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE component_types SET name = ?, description = ? WHERE id = ?`,
		ct.Name, nullStr(ct.Description), ct.ID)
	if err != nil {
		return fmt.Errorf("update component type: %w", mapWriteErr(err))
	}
	return requireRow(res, "update component type")
}

func (r *SQLiteRepository) DeleteComponentType(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM component_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete component type: %w", mapWriteErr(err))
	}
	return requireRow(res, "delete component type")
}

const productColumns = "id, component_type_id, make, model, sub_type, description, distance_life_km, time_life_months"

func (r *SQLiteRepository) CreateProduct(ctx context.Context, p core.Product) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (component_type_id, make, model, sub_type, description, distance_life_km, time_life_months)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ComponentTypeID, nullStr(p.Make), nullStr(p.Model), nullStr(p.SubType),
		nullStr(p.Description), p.DistanceLifeKm, p.TimeLifeMonths)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", mapWriteErr(err))
	}
	return res.LastInsertId()
}

func scanProduct(row interface{ Scan(...any) error }) (core.Product, error) {
	var p core.Product
	var mk, mdl, sub, desc sql.NullString
	var distKm, timeMo sql.NullInt64
	if err := row.Scan(&p.ID, &p.ComponentTypeID, &mk, &mdl, &sub, &desc, &distKm, &timeMo); err != nil {
		return core.Product{}, err
	}
	p.Make, p.Model, p.SubType, p.Description = strOf(mk), strOf(mdl), strOf(sub), strOf(desc)
	if distKm.Valid {
		p.DistanceLifeKm = &distKm.Int64
	}
	if timeMo.Valid {
		p.TimeLifeMonths = &timeMo.Int64
	}
	return p, nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return core.Product{}, fmt.Errorf("get product %d: %w", id, one(err))
	}
	return p, nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]core.Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *SQLiteRepository) ListProductsByComponentType(ctx context.Context, componentTypeID int64) ([]core.Product, error) {
	return r.listProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE component_type_id = ? ORDER BY id`,
		componentTypeID)
}

func (r *SQLiteRepository) listProducts(ctx context.Context, query string, args ...any) ([]core.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *SQLiteRepository) UpdateProduct(ctx context.Context, p core.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET component_type_id = ?, make = ?, model = ?, sub_type = ?, description = ?,
		     distance_life_km = ?, time_life_months = ?
		 WHERE id = ?`,
		p.ComponentTypeID, nullStr(p.Make), nullStr(p.Model), nullStr(p.SubType),
		nullStr(p.Description), p.DistanceLifeKm, p.TimeLifeMonths, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", mapWriteErr(err))
	}
	return requireRow(res, "update product")
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", mapWriteErr(err))
	}
	return requireRow(res, "delete product")
}
