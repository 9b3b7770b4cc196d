package core

import "context"

// Reader is the read side of the persistence store. Lookups of a single record return an
// error wrapping ErrNotFound when the record is absent.
type Reader interface {
	GetWarehouse(ctx context.Context, id int64) (*Warehouse, error)
	ListWarehouses(ctx context.Context) ([]Warehouse, error)

	GetCategory(ctx context.Context, id int64) (*Category, error)
	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]Category, error)

	// GetProductByPublicID returns the product only if it is not soft-deleted.
	GetProductByPublicID(ctx context.Context, publicID string) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	ListInventory(ctx context.Context, filter InventoryFilter) ([]InventoryItem, error)
	// ListTransfers returns audit records newest first.
	ListTransfers(ctx context.Context, filter TransferFilter) ([]InventoryTransfer, error)
}

// Tx is a unit of work opened by Store.InTx. Nothing written through a Tx is visible to
// other callers until InTx returns nil.
type Tx interface {
	Reader

	// LockWarehouse reads the warehouse and holds a row lock on it until the transaction ends.
	LockWarehouse(ctx context.Context, id int64) (*Warehouse, error)
	InsertWarehouse(ctx context.Context, w *Warehouse) error
	// UpdateWarehouse writes name, location and max capacity. It never touches current capacity.
	UpdateWarehouse(ctx context.Context, w *Warehouse) error
	// SetWarehouseCapacity writes the current capacity of a warehouse.
	SetWarehouseCapacity(ctx context.Context, id int64, current int) error
	// DeleteWarehouse fails with ErrConflict while inventory or transfer history references it.
	DeleteWarehouse(ctx context.Context, id int64) error

	// CategoryNameTaken reports whether another category (id != exceptID) has this name, ignoring case.
	CategoryNameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	InsertCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// LockProduct is GetProductByPublicID holding a row lock.
	LockProduct(ctx context.Context, publicID string) (*Product, error)
	// InsertProduct fails with ErrConflict on a duplicate sku or public id.
	InsertProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error

	GetInventory(ctx context.Context, warehouseID, productID int64) (*InventoryRecord, error)
	GetInventoryByProduct(ctx context.Context, productID int64) (*InventoryRecord, error)
	// InsertInventory fails with ErrConflict if the product already holds an inventory row.
	InsertInventory(ctx context.Context, rec *InventoryRecord) error
	DeleteInventory(ctx context.Context, id int64) error

	InsertTransfer(ctx context.Context, t *InventoryTransfer) error
}

// Store is the persistence boundary shared by every service.
type Store interface {
	Reader

	// InTx runs fn in one transaction. The transaction commits if fn returns nil and
	// rolls back otherwise; fn's error is returned unchanged.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
}
