package app

// AddInventoryRequest is the input for placing a product into a warehouse.
type AddInventoryRequest struct {
	WarehouseID     int64
	ProductPublicID string
	Quantity        int
	StorageLocation string // empty means none
	ExpirationDate  string // YYYY-MM-DD; empty means the product does not expire
}

// TransferRequest is the input for moving a product between two warehouses.
type TransferRequest struct {
	ProductPublicID        string
	SourceWarehouseID      int64
	DestinationWarehouseID int64
	Notes                  string
}

// TransferQuery narrows ListTransfers. Empty fields do not filter.
type TransferQuery struct {
	ProductPublicID string
	WarehouseID     string
}
