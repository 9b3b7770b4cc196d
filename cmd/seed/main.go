// seed loads demo categories, products, warehouses and stock through the application
// services, so every capacity rule applies. It refuses to run against a store that
// already has warehouses.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"reliable-inventory/internal/app"
	"reliable-inventory/internal/core"
	"reliable-inventory/internal/store"
)

type seedProduct struct {
	sku, name, unit, category string
	price                     string
	hazardous, perishable     bool
}

var (
	seedCategories = []core.CategoryInput{
		{Name: "Dairy", Description: ptr("Chilled milk products")},
		{Name: "Dry Goods", Description: ptr("Shelf-stable staples")},
		{Name: "Cleaning", Description: ptr("Detergents and solvents")},
	}
	seedWarehouses = []core.WarehouseInput{
		{Name: "Central", Location: "Warehouse District, Bay 1", MaxCapacity: 5000},
		{Name: "North Cold Store", Location: "Ring Road 14", MaxCapacity: 1200},
		{Name: "Overflow", Location: "Harbour Yard", MaxCapacity: 800},
	}
	seedProducts = []seedProduct{
		{sku: "MILK-1L", name: "Whole Milk 1L", unit: "bottle", category: "Dairy", price: "1.19", perishable: true},
		{sku: "YOG-500", name: "Greek Yogurt 500g", unit: "tub", category: "Dairy", price: "2.49", perishable: true},
		{sku: "RICE-5KG", name: "Basmati Rice 5kg", unit: "bag", category: "Dry Goods", price: "8.40"},
		{sku: "FLOUR-1KG", name: "Wheat Flour 1kg", unit: "bag", category: "Dry Goods", price: "0.95"},
		{sku: "BLEACH-2L", name: "Bleach 2L", unit: "bottle", category: "Cleaning", price: "3.10", hazardous: true},
	}
)

// placement puts a product (by sku) into a warehouse (by index of seedWarehouses).
type placement struct {
	sku       string
	warehouse int
	qty       int
	location  string
	expiresIn int // days from today; 0 means no expiration
}

var seedStock = []placement{
	{sku: "MILK-1L", warehouse: 1, qty: 300, location: "C-01", expiresIn: 5},
	{sku: "YOG-500", warehouse: 1, qty: 120, location: "C-02", expiresIn: -1},
	{sku: "RICE-5KG", warehouse: 0, qty: 900, location: "A-12"},
	{sku: "FLOUR-1KG", warehouse: 2, qty: 400, location: "Y-03", expiresIn: 180},
	{sku: "BLEACH-2L", warehouse: 0, qty: 150, location: "H-01"},
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := store.ConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	st, release, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer release()

	svc := app.NewFromStore(st, nil, nil)

	existing, err := svc.ListWarehouses(ctx)
	if err != nil {
		log.Fatalf("Failed to list warehouses: %v", err)
	}
	if len(existing.Warehouses) > 0 {
		log.Fatalf("Store already has %d warehouses; seed only runs on an empty store.", len(existing.Warehouses))
	}

	log.Println("Creating categories...")
	categoryIDs := make(map[string]int64, len(seedCategories))
	for _, in := range seedCategories {
		c, err := svc.CreateCategory(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create category %s: %v", in.Name, err)
		}
		categoryIDs[c.Name] = c.ID
	}

	log.Println("Creating products...")
	productIDs := make(map[string]string, len(seedProducts))
	for _, sp := range seedProducts {
		categoryID := categoryIDs[sp.category]
		p, err := svc.CreateProduct(ctx, core.ProductInput{
			Name:               sp.name,
			SKU:                sp.sku,
			Unit:               ptr(sp.unit),
			IsHazardous:        sp.hazardous,
			ExpirationRequired: sp.perishable,
			Price:              decimal.RequireFromString(sp.price),
			CategoryID:         &categoryID,
		})
		if err != nil {
			log.Fatalf("Failed to create product %s: %v", sp.sku, err)
		}
		productIDs[sp.sku] = p.PublicID
	}

	log.Println("Creating warehouses...")
	warehouseIDs := make([]int64, len(seedWarehouses))
	for i, in := range seedWarehouses {
		w, err := svc.CreateWarehouse(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create warehouse %s: %v", in.Name, err)
		}
		warehouseIDs[i] = w.ID
	}

	log.Println("Placing stock...")
	today := core.DateOf(time.Now())
	for _, pl := range seedStock {
		req := app.AddInventoryRequest{
			WarehouseID:     warehouseIDs[pl.warehouse],
			ProductPublicID: productIDs[pl.sku],
			Quantity:        pl.qty,
			StorageLocation: pl.location,
		}
		if pl.expiresIn != 0 {
			req.ExpirationDate = today.AddDays(pl.expiresIn).String()
		}
		if _, err := svc.AddInventory(ctx, req); err != nil {
			log.Fatalf("Failed to place %s: %v", pl.sku, err)
		}
	}

	log.Printf("Seed complete: %d categories, %d products, %d warehouses, %d stock rows.",
		len(seedCategories), len(seedProducts), len(seedWarehouses), len(seedStock))
}

func ptr(s string) *string { return &s }
