package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reliable-inventory/internal/core"
)

const warehouseColumns = `warehouse_id, name, location, max_capacity, current_capacity, created_at, updated_at`

func scanWarehouse(row pgx.Row, w *core.Warehouse) error {
	return row.Scan(&w.ID, &w.Name, &w.Location, &w.MaxCapacity, &w.CurrentCapacity, &w.CreatedAt, &w.UpdatedAt)
}

func (r reader) GetWarehouse(ctx context.Context, id int64) (*core.Warehouse, error) {
	w := &core.Warehouse{}
	err := scanWarehouse(r.q.QueryRow(ctx, `
		SELECT `+warehouseColumns+`
		FROM warehouses
		WHERE warehouse_id = $1`, id), w)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("warehouse %d", id))
	}
	return w, nil
}

func (r reader) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+warehouseColumns+`
		FROM warehouses
		ORDER BY warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []core.Warehouse{}
	for rows.Next() {
		var w core.Warehouse
		if err := scanWarehouse(rows, &w); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

// LockWarehouse holds the row lock until the transaction ends. Every capacity check
// runs against a row read this way.
func (t *tx) LockWarehouse(ctx context.Context, id int64) (*core.Warehouse, error) {
	w := &core.Warehouse{}
	err := scanWarehouse(t.q.QueryRow(ctx, `
		SELECT `+warehouseColumns+`
		FROM warehouses
		WHERE warehouse_id = $1
		FOR UPDATE`, id), w)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("warehouse %d", id))
	}
	return w, nil
}

func (t *tx) InsertWarehouse(ctx context.Context, w *core.Warehouse) error {
	err := scanWarehouse(t.q.QueryRow(ctx, `
		INSERT INTO warehouses (name, location, max_capacity, current_capacity)
		VALUES ($1, $2, $3, 0)
		RETURNING `+warehouseColumns,
		w.Name, w.Location, w.MaxCapacity), w)
	return mapError(err, fmt.Sprintf("insert warehouse %q", w.Name))
}

func (t *tx) UpdateWarehouse(ctx context.Context, w *core.Warehouse) error {
	err := scanWarehouse(t.q.QueryRow(ctx, `
		UPDATE warehouses
		SET name = $2, location = $3, max_capacity = $4, updated_at = now()
		WHERE warehouse_id = $1
		RETURNING `+warehouseColumns,
		w.ID, w.Name, w.Location, w.MaxCapacity), w)
	return mapError(err, fmt.Sprintf("update warehouse %d", w.ID))
}

func (t *tx) SetWarehouseCapacity(ctx context.Context, id int64, current int) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE warehouses
		SET current_capacity = $2, updated_at = now()
		WHERE warehouse_id = $1`,
		id, current)
	if err != nil {
		return mapError(err, fmt.Sprintf("set warehouse %d capacity", id))
	}
	return expectOne(tag, fmt.Sprintf("warehouse %d", id))
}

// DeleteWarehouse relies on the inventory and transfer foreign keys to refuse deleting a
// referenced warehouse.
func (t *tx) DeleteWarehouse(ctx context.Context, id int64) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM warehouses WHERE warehouse_id = $1`, id)
	if err != nil {
		return mapError(err, fmt.Sprintf("delete warehouse %d", id))
	}
	return expectOne(tag, fmt.Sprintf("warehouse %d", id))
}
