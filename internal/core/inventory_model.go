package core

import "time"

// Warehouse is a physical storage site. CurrentCapacity is the sum of the quantities of all
// inventory rows placed in it and is only ever written by InventoryService.
type Warehouse struct {
	ID              int64     `json:"warehouseId"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	MaxCapacity     int       `json:"maxCapacity"`
	CurrentCapacity int       `json:"currentCapacity"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// InventoryRecord links one product to the single warehouse currently holding it.
type InventoryRecord struct {
	ID              int64     `json:"inventoryId"`
	WarehouseID     int64     `json:"warehouseId"`
	ProductID       int64     `json:"-"`
	Quantity        int       `json:"quantity"`
	StorageLocation *string   `json:"storageLocation"`
	ExpirationDate  *Date     `json:"expirationDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// InventoryItem is a read view of an inventory row joined with its warehouse and product.
type InventoryItem struct {
	InventoryRecord
	WarehouseName     string  `json:"warehouseName"`
	WarehouseLocation string  `json:"warehouseLocation"`
	ProductPublicID   string  `json:"productPublicId"`
	Product           Product `json:"product"`
}

// WarehouseInventory is the stock listing of a single warehouse.
type WarehouseInventory struct {
	WarehouseName     string          `json:"warehouseName"`
	WarehouseLocation string          `json:"warehouseLocation"`
	Inventory         []InventoryItem `json:"inventory"`
}

// InventoryTransfer is an append-only audit record of a move between two warehouses.
type InventoryTransfer struct {
	ID                     int64     `json:"transferId"`
	ProductID              int64     `json:"-"`
	ProductPublicID        string    `json:"productPublicId"`
	SourceWarehouseID      int64     `json:"sourceWarehouseId"`
	DestinationWarehouseID int64     `json:"destinationWarehouseId"`
	Quantity               int       `json:"quantity"`
	Notes                  *string   `json:"transferNotes"`
	CreatedAt              time.Time `json:"createdAt"`
}

// AddInventoryInput holds the fields for placing a product into a warehouse.
type AddInventoryInput struct {
	ProductPublicID string
	Quantity        int
	StorageLocation *string
	ExpirationDate  *Date
}

// TransferInput identifies a full-quantity move of a product between two warehouses.
type TransferInput struct {
	ProductPublicID        string
	SourceWarehouseID      int64
	DestinationWarehouseID int64
	Notes                  *string
}

// InventoryFilter narrows ListInventory. Nil fields do not filter.
// Expiration bounds are inclusive; ExpiresBefore is exclusive.
type InventoryFilter struct {
	WarehouseID            *int64
	ExpiresFrom            *Date
	ExpiresTo              *Date
	ExpiresBefore          *Date
	IncludeDeletedProducts bool
}

// TransferFilter narrows ListTransfers. A warehouse matches as either source or destination.
type TransferFilter struct {
	ProductPublicID string
	WarehouseID     *int64
}

// CapacityDrift describes a warehouse whose recorded capacity disagrees with its stock.
type CapacityDrift struct {
	WarehouseID int64  `json:"warehouseId"`
	Name        string `json:"name"`
	Recorded    int    `json:"recorded"`
	Actual      int    `json:"actual"`
	Max         int    `json:"max"`
}

// ConsistencyReport is produced by CheckConsistency. An empty report means no drift was found.
type ConsistencyReport struct {
	Drift             []CapacityDrift `json:"drift"`
	DuplicateProducts []string        `json:"duplicateProducts"`
}

// OK reports whether no inconsistency was found.
func (r *ConsistencyReport) OK() bool {
	return len(r.Drift) == 0 && len(r.DuplicateProducts) == 0
}
