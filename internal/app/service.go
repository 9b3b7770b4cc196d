package app

import (
	"context"

	"reliable-inventory/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// ── Inventory ─────────────────────────────────────────────────────────────

	// AddInventory places a product into a warehouse and claims capacity.
	AddInventory(ctx context.Context, req AddInventoryRequest) (*core.InventoryItem, error)

	// RemoveInventory deletes a product's row from a warehouse and releases its capacity.
	RemoveInventory(ctx context.Context, warehouseID int64, productPublicID string) error

	// TransferInventory moves a product's full quantity between warehouses and records the move.
	TransferInventory(ctx context.Context, req TransferRequest) (*core.InventoryTransfer, error)

	// GetWarehouseInventory returns the stock of one warehouse with its name and location.
	GetWarehouseInventory(ctx context.Context, warehouseID int64) (*core.WarehouseInventory, error)

	// ListInventory returns the stock of all warehouses.
	ListInventory(ctx context.Context) (*InventoryListResult, error)

	// ListExpiringInventory returns stock expiring within the next days days, today included.
	ListExpiringInventory(ctx context.Context, days int) (*InventoryListResult, error)

	// ListExpiredInventory returns stock whose expiration date has passed.
	ListExpiredInventory(ctx context.Context) (*InventoryListResult, error)

	// ListTransfers returns the transfer audit history, newest first.
	ListTransfers(ctx context.Context, query TransferQuery) (*TransferListResult, error)

	// CheckConsistency compares each warehouse's recorded capacity with its stock.
	CheckConsistency(ctx context.Context) (*core.ConsistencyReport, error)

	// ── Warehouses ────────────────────────────────────────────────────────────

	ListWarehouses(ctx context.Context) (*WarehouseListResult, error)
	GetWarehouse(ctx context.Context, id int64) (*core.Warehouse, error)
	CreateWarehouse(ctx context.Context, input core.WarehouseInput) (*core.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int64, input core.WarehouseInput) (*core.Warehouse, error)
	PatchWarehouse(ctx context.Context, id int64, patch core.WarehousePatch) (*core.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error

	// ── Catalog ───────────────────────────────────────────────────────────────

	ListCategories(ctx context.Context) (*CategoryListResult, error)
	CreateCategory(ctx context.Context, input core.CategoryInput) (*core.Category, error)
	UpdateCategory(ctx context.Context, id int64, input core.CategoryInput) (*core.Category, error)
	PatchCategory(ctx context.Context, id int64, patch core.CategoryPatch) (*core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// ListProducts returns active products; categoryID optionally restricts them to one category.
	ListProducts(ctx context.Context, categoryID *int64) (*ProductListResult, error)
	GetProduct(ctx context.Context, publicID string) (*core.Product, error)
	CreateProduct(ctx context.Context, input core.ProductInput) (*core.Product, error)
	UpdateProduct(ctx context.Context, publicID string, input core.ProductInput) (*core.Product, error)
	PatchProduct(ctx context.Context, publicID string, patch core.ProductPatch) (*core.Product, error)
	// DeleteProduct soft-deletes a product that holds no stock.
	DeleteProduct(ctx context.Context, publicID string) error

	// Health reports whether the backing store is reachable.
	Health(ctx context.Context) error
}
