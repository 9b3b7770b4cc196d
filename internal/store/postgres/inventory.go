package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"reliable-inventory/internal/core"
)

const inventoryColumns = `i.inventory_id, i.warehouse_id, i.product_id, i.quantity,
	i.storage_location, i.expiration_date, i.created_at, i.updated_at`

// dateArg encodes an optional calendar day as a DATE parameter.
func dateArg(d *core.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func toDate(t *time.Time) *core.Date {
	if t == nil {
		return nil
	}
	d := core.DateOf(*t)
	return &d
}

func scanInventory(row pgx.Row, rec *core.InventoryRecord) error {
	var expires *time.Time
	if err := row.Scan(
		&rec.ID, &rec.WarehouseID, &rec.ProductID, &rec.Quantity,
		&rec.StorageLocation, &expires, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return err
	}
	rec.ExpirationDate = toDate(expires)
	return nil
}

func (t *tx) GetInventory(ctx context.Context, warehouseID, productID int64) (*core.InventoryRecord, error) {
	rec := &core.InventoryRecord{}
	err := scanInventory(t.q.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM warehouse_inventory i
		WHERE i.warehouse_id = $1 AND i.product_id = $2
		FOR UPDATE`, warehouseID, productID), rec)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("inventory for product %d in warehouse %d", productID, warehouseID))
	}
	return rec, nil
}

func (t *tx) GetInventoryByProduct(ctx context.Context, productID int64) (*core.InventoryRecord, error) {
	rec := &core.InventoryRecord{}
	err := scanInventory(t.q.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM warehouse_inventory i
		WHERE i.product_id = $1`, productID), rec)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("inventory for product %d", productID))
	}
	return rec, nil
}

// InsertInventory surfaces the product_id unique index as ErrConflict. That index is what
// keeps two concurrent placements of one product into different warehouses from both committing.
func (t *tx) InsertInventory(ctx context.Context, rec *core.InventoryRecord) error {
	err := t.q.QueryRow(ctx, `
		INSERT INTO warehouse_inventory (warehouse_id, product_id, quantity, storage_location, expiration_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING inventory_id, created_at, updated_at`,
		rec.WarehouseID, rec.ProductID, rec.Quantity, rec.StorageLocation, dateArg(rec.ExpirationDate),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return mapError(err, fmt.Sprintf("insert inventory for product %d", rec.ProductID))
}

func (t *tx) DeleteInventory(ctx context.Context, id int64) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM warehouse_inventory WHERE inventory_id = $1`, id)
	if err != nil {
		return mapError(err, fmt.Sprintf("delete inventory %d", id))
	}
	return expectOne(tag, fmt.Sprintf("inventory %d", id))
}

func (r reader) ListInventory(ctx context.Context, filter core.InventoryFilter) ([]core.InventoryItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+inventoryColumns+`, w.name, w.location, `+productColumns+`
		FROM warehouse_inventory i
		JOIN warehouses w ON w.warehouse_id = i.warehouse_id
		JOIN products p ON p.product_id = i.product_id
		WHERE ($1::bigint IS NULL OR i.warehouse_id = $1)
		  AND ($2::boolean OR NOT p.is_deleted)
		  AND ($3::date IS NULL OR i.expiration_date >= $3)
		  AND ($4::date IS NULL OR i.expiration_date <= $4)
		  AND ($5::date IS NULL OR i.expiration_date < $5)
		ORDER BY i.warehouse_id, i.inventory_id`,
		filter.WarehouseID, filter.IncludeDeletedProducts,
		dateArg(filter.ExpiresFrom), dateArg(filter.ExpiresTo), dateArg(filter.ExpiresBefore))
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := []core.InventoryItem{}
	for rows.Next() {
		var (
			item    core.InventoryItem
			expires *time.Time
		)
		dest := []any{
			&item.ID, &item.WarehouseID, &item.ProductID, &item.Quantity,
			&item.StorageLocation, &expires, &item.CreatedAt, &item.UpdatedAt,
			&item.WarehouseName, &item.WarehouseLocation,
		}
		dest = append(dest, productDest(&item.Product)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		item.ExpirationDate = toDate(expires)
		item.ProductPublicID = item.Product.PublicID
		items = append(items, item)
	}
	return items, rows.Err()
}

// ── Transfers ─────────────────────────────────────────────────────────────────

func (t *tx) InsertTransfer(ctx context.Context, tr *core.InventoryTransfer) error {
	var createdAt any
	if !tr.CreatedAt.IsZero() {
		createdAt = tr.CreatedAt
	}
	err := t.q.QueryRow(ctx, `
		INSERT INTO inventory_transfers (product_id, source_warehouse_id, destination_warehouse_id,
		                                 quantity, transfer_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, now()))
		RETURNING transfer_id, created_at`,
		tr.ProductID, tr.SourceWarehouseID, tr.DestinationWarehouseID, tr.Quantity, tr.Notes, createdAt,
	).Scan(&tr.ID, &tr.CreatedAt)
	return mapError(err, fmt.Sprintf("insert transfer for product %d", tr.ProductID))
}

func (r reader) ListTransfers(ctx context.Context, filter core.TransferFilter) ([]core.InventoryTransfer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT t.transfer_id, t.product_id, p.public_id::text, t.source_warehouse_id,
		       t.destination_warehouse_id, t.quantity, t.transfer_notes, t.created_at
		FROM inventory_transfers t
		JOIN products p ON p.product_id = t.product_id
		WHERE ($1::text = '' OR p.public_id::text = $1)
		  AND ($2::bigint IS NULL OR t.source_warehouse_id = $2 OR t.destination_warehouse_id = $2)
		ORDER BY t.created_at DESC, t.transfer_id DESC`,
		filter.ProductPublicID, filter.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	transfers := []core.InventoryTransfer{}
	for rows.Next() {
		var tr core.InventoryTransfer
		if err := rows.Scan(
			&tr.ID, &tr.ProductID, &tr.ProductPublicID, &tr.SourceWarehouseID,
			&tr.DestinationWarehouseID, &tr.Quantity, &tr.Notes, &tr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfers = append(transfers, tr)
	}
	return transfers, rows.Err()
}
