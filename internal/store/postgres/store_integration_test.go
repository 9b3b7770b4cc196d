package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"reliable-inventory/internal/core"
	"reliable-inventory/internal/store/postgres"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, core.Store) {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	// Use a dedicated TEST database; every run truncates all inventory tables.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE inventory_transfers, warehouse_inventory, products, categories, warehouses
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to reset test database: %v", err)
	}
	return pool, postgres.New(pool)
}

type fixture struct {
	inventory  core.InventoryService
	warehouses core.WarehouseService
	products   core.ProductService
	categories core.CategoryService
	pool       *pgxpool.Pool
}

func newFixture(t *testing.T) fixture {
	pool, store := setupTestDB(t)
	return fixture{
		inventory:  core.NewInventoryService(store, nil, nil),
		warehouses: core.NewWarehouseService(store),
		products:   core.NewProductService(store),
		categories: core.NewCategoryService(store),
		pool:       pool,
	}
}

func (f fixture) warehouse(t *testing.T, name string, max int) *core.Warehouse {
	t.Helper()
	w, err := f.warehouses.CreateWarehouse(context.Background(), core.WarehouseInput{
		Name: name, Location: "Dock " + name, MaxCapacity: max,
	})
	if err != nil {
		t.Fatalf("CreateWarehouse(%s) failed: %v", name, err)
	}
	return w
}

func (f fixture) product(t *testing.T, sku string) *core.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), core.ProductInput{
		Name: "Product " + sku, SKU: sku, Price: decimal.RequireFromString("9.99"),
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s) failed: %v", sku, err)
	}
	return p
}

func (f fixture) capacity(t *testing.T, id int64) int {
	t.Helper()
	var current int
	err := f.pool.QueryRow(context.Background(),
		`SELECT current_capacity FROM warehouses WHERE warehouse_id = $1`, id).Scan(&current)
	if err != nil {
		t.Fatalf("read capacity of warehouse %d: %v", id, err)
	}
	return current
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestPostgres_AddTransferDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w1 := f.warehouse(t, "North", 100)
	w2 := f.warehouse(t, "South", 50)
	p := f.product(t, "SKU-1")

	expires := core.DateOf(time.Now()).AddDays(10)
	item, err := f.inventory.AddProductToWarehouse(ctx, w1.ID, core.AddInventoryInput{
		ProductPublicID: p.PublicID, Quantity: 30, ExpirationDate: &expires,
	})
	if err != nil {
		t.Fatalf("AddProductToWarehouse failed: %v", err)
	}
	if item.ExpirationDate == nil || item.ExpirationDate.String() != expires.String() {
		t.Errorf("expiration date = %v, want %s", item.ExpirationDate, expires)
	}
	if got := f.capacity(t, w1.ID); got != 30 {
		t.Errorf("w1 capacity = %d, want 30", got)
	}

	transfer, err := f.inventory.TransferInventory(ctx, core.TransferInput{
		ProductPublicID: p.PublicID, SourceWarehouseID: w1.ID, DestinationWarehouseID: w2.ID,
	})
	if err != nil {
		t.Fatalf("TransferInventory failed: %v", err)
	}
	if transfer.Quantity != 30 {
		t.Errorf("transfer quantity = %d, want 30", transfer.Quantity)
	}
	if f.capacity(t, w1.ID) != 0 || f.capacity(t, w2.ID) != 30 {
		t.Errorf("capacities after transfer = (%d, %d), want (0, 30)", f.capacity(t, w1.ID), f.capacity(t, w2.ID))
	}

	moved, err := f.inventory.GetInventoryByWarehouse(ctx, w2.ID)
	if err != nil {
		t.Fatalf("GetInventoryByWarehouse failed: %v", err)
	}
	if len(moved.Inventory) != 1 || moved.Inventory[0].ExpirationDate.String() != expires.String() {
		t.Errorf("destination inventory = %+v, want one row keeping its expiration date", moved.Inventory)
	}

	if err := f.inventory.DeleteInventory(ctx, w2.ID, p.PublicID); err != nil {
		t.Fatalf("DeleteInventory failed: %v", err)
	}
	if err := f.inventory.DeleteInventory(ctx, w2.ID, p.PublicID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second DeleteInventory error = %v, want ErrNotFound", err)
	}

	history, err := f.inventory.GetTransfers(ctx, core.TransferFilter{WarehouseID: &w1.ID})
	if err != nil {
		t.Fatalf("GetTransfers failed: %v", err)
	}
	if len(history) != 1 || history[0].ProductPublicID != p.PublicID {
		t.Errorf("transfer history = %+v, want one record for %s", history, p.PublicID)
	}

	// History still references the warehouses.
	if err := f.warehouses.DeleteWarehouse(ctx, w1.ID); !errors.Is(err, core.ErrConflict) {
		t.Errorf("DeleteWarehouse error = %v, want ErrConflict", err)
	}
}

func TestPostgres_TransferOverCapacityRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w1 := f.warehouse(t, "Big", 100)
	w2 := f.warehouse(t, "Small", 10)
	p := f.product(t, "SKU-2")

	if _, err := f.inventory.AddProductToWarehouse(ctx, w1.ID, core.AddInventoryInput{
		ProductPublicID: p.PublicID, Quantity: 20,
	}); err != nil {
		t.Fatalf("AddProductToWarehouse failed: %v", err)
	}

	_, err := f.inventory.TransferInventory(ctx, core.TransferInput{
		ProductPublicID: p.PublicID, SourceWarehouseID: w1.ID, DestinationWarehouseID: w2.ID,
	})
	if !errors.Is(err, core.ErrCapacityExceeded) {
		t.Fatalf("TransferInventory error = %v, want ErrCapacityExceeded", err)
	}
	if f.capacity(t, w1.ID) != 20 || f.capacity(t, w2.ID) != 0 {
		t.Errorf("capacities = (%d, %d), want unchanged (20, 0)", f.capacity(t, w1.ID), f.capacity(t, w2.ID))
	}
	history, err := f.inventory.GetTransfers(ctx, core.TransferFilter{})
	if err != nil {
		t.Fatalf("GetTransfers failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("transfer history has %d records, want 0", len(history))
	}
}

func TestPostgres_ConcurrentAddsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w := f.warehouse(t, "Contended", 10)
	products := make([]*core.Product, 8)
	for i := range products {
		products[i] = f.product(t, "SKU-C"+string(rune('A'+i)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, p := range products {
		wg.Add(1)
		go func(publicID string) {
			defer wg.Done()
			_, err := f.inventory.AddProductToWarehouse(ctx, w.ID, core.AddInventoryInput{
				ProductPublicID: publicID, Quantity: 3,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, core.ErrCapacityExceeded) {
				t.Errorf("unexpected error: %v", err)
			}
		}(p.PublicID)
	}
	wg.Wait()

	if succeeded != 3 {
		t.Errorf("succeeded = %d, want 3", succeeded)
	}
	if got := f.capacity(t, w.ID); got != 9 {
		t.Errorf("capacity = %d, want 9", got)
	}
	report, err := f.inventory.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("CheckConsistency failed: %v", err)
	}
	if !report.OK() {
		t.Errorf("consistency report = %+v, want OK", report)
	}
}

func TestPostgres_SameProductRaceHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w1 := f.warehouse(t, "East", 100)
	w2 := f.warehouse(t, "West", 100)
	p := f.product(t, "SKU-R")

	errs := make(chan error, 2)
	for _, id := range []int64{w1.ID, w2.ID} {
		go func(warehouseID int64) {
			_, err := f.inventory.AddProductToWarehouse(ctx, warehouseID, core.AddInventoryInput{
				ProductPublicID: p.PublicID, Quantity: 5,
			})
			errs <- err
		}(id)
	}

	var conflicts int
	for i := 0; i < 2; i++ {
		err := <-errs
		if errors.Is(err, core.ErrConflict) {
			conflicts++
		} else if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if conflicts != 1 {
		t.Errorf("conflicts = %d, want 1", conflicts)
	}
	if total := f.capacity(t, w1.ID) + f.capacity(t, w2.ID); total != 5 {
		t.Errorf("total capacity = %d, want 5", total)
	}
}

func TestPostgres_AddRacingProductDeleteNeverStrandsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w := f.warehouse(t, "Racetrack", 1000)

	added := 0
	for round := 0; round < 20; round++ {
		p := f.product(t, fmt.Sprintf("SKU-D%02d", round))

		var (
			wg             sync.WaitGroup
			addErr, delErr error
		)
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, addErr = f.inventory.AddProductToWarehouse(ctx, w.ID, core.AddInventoryInput{
				ProductPublicID: p.PublicID, Quantity: 1,
			})
		}()
		go func() {
			defer wg.Done()
			<-start
			delErr = f.products.DeleteProduct(ctx, p.PublicID)
		}()
		close(start)
		wg.Wait()

		switch {
		case addErr == nil && delErr == nil:
			t.Fatalf("round %d: add and delete both succeeded", round)
		case addErr == nil:
			added++
			if !errors.Is(delErr, core.ErrConflict) {
				t.Errorf("round %d: delete error = %v, want ErrConflict", round, delErr)
			}
		case delErr == nil:
			if !errors.Is(addErr, core.ErrNotFound) {
				t.Errorf("round %d: add error = %v, want ErrNotFound", round, addErr)
			}
		default:
			t.Errorf("round %d: both failed: add %v, delete %v", round, addErr, delErr)
		}
	}

	if got := f.capacity(t, w.ID); got != added {
		t.Errorf("capacity = %d, want %d", got, added)
	}
	visible, err := f.inventory.GetAllWarehousesInventory(ctx)
	if err != nil {
		t.Fatalf("GetAllWarehousesInventory failed: %v", err)
	}
	if len(visible) != added {
		t.Errorf("visible stock rows = %d, want %d", len(visible), added)
	}
}

func TestPostgres_CatalogConstraints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.categories.CreateCategory(ctx, core.CategoryInput{Name: "Frozen"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := f.categories.CreateCategory(ctx, core.CategoryInput{Name: "FROZEN"}); !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate category error = %v, want ErrConflict", err)
	}

	p, err := f.products.CreateProduct(ctx, core.ProductInput{
		Name: "Peas", SKU: "PEAS-1", Price: decimal.RequireFromString("1.25"), CategoryID: &c.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("price = %s, want 1.25", p.Price)
	}
	if _, err := f.products.CreateProduct(ctx, core.ProductInput{
		Name: "Peas again", SKU: "PEAS-1", Price: decimal.Zero,
	}); !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate sku error = %v, want ErrConflict", err)
	}

	if err := f.categories.DeleteCategory(ctx, c.ID); !errors.Is(err, core.ErrConflict) {
		t.Errorf("DeleteCategory error = %v, want ErrConflict", err)
	}
	if _, err := f.products.GetProduct(ctx, "not-a-uuid"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetProduct(malformed) error = %v, want ErrNotFound", err)
	}
}
