package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products. Products reference their category by id.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CategoryInput holds the fields for creating or fully replacing a category.
type CategoryInput struct {
	Name        string
	Description *string
}

// CategoryPatch holds optional fields for a partial category update. Nil means unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// Product is a catalog entry. PublicID is the stable external identifier; ID never leaves the service.
type Product struct {
	ID                 int64           `json:"-"`
	PublicID           string          `json:"publicId"`
	Name               string          `json:"name"`
	SKU                string          `json:"sku"`
	Description        *string         `json:"description"`
	Unit               *string         `json:"unit"`
	IsHazardous        bool            `json:"isHazardous"`
	ExpirationRequired bool            `json:"expirationRequired"`
	Price              decimal.Decimal `json:"price"`
	IsDeleted          bool            `json:"-"`
	CategoryID         *int64          `json:"categoryId"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// ProductInput holds the fields for creating or fully replacing a product.
type ProductInput struct {
	Name               string
	SKU                string
	Description        *string
	Unit               *string
	IsHazardous        bool
	ExpirationRequired bool
	Price              decimal.Decimal
	CategoryID         *int64
}

// ProductPatch holds optional fields for a partial product update. Nil means unchanged.
type ProductPatch struct {
	Name               *string
	SKU                *string
	Description        *string
	Unit               *string
	IsHazardous        *bool
	ExpirationRequired *bool
	Price              *decimal.Decimal
	CategoryID         *int64
}

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	CategoryID     *int64
	IncludeDeleted bool
}

// WarehouseInput holds the fields for creating or fully replacing a warehouse.
// Current capacity is never accepted from callers.
type WarehouseInput struct {
	Name        string
	Location    string
	MaxCapacity int
}

// WarehousePatch holds optional fields for a partial warehouse update. Nil means unchanged.
type WarehousePatch struct {
	Name        *string
	Location    *string
	MaxCapacity *int
}
