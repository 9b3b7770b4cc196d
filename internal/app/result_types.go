package app

import "reliable-inventory/internal/core"

// InventoryListResult is returned by the inventory listing operations.
type InventoryListResult struct {
	Items []core.InventoryItem
}

// TotalQuantity sums the quantity of every listed row.
func (r *InventoryListResult) TotalQuantity() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// TransferListResult is returned by ListTransfers.
type TransferListResult struct {
	Transfers []core.InventoryTransfer
}

// WarehouseListResult is returned by ListWarehouses.
type WarehouseListResult struct {
	Warehouses []core.Warehouse
}

// CategoryListResult is returned by ListCategories.
type CategoryListResult struct {
	Categories []core.Category
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}
