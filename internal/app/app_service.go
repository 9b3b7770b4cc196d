package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"reliable-inventory/internal/core"
)

type appService struct {
	store      core.Store
	inventory  core.InventoryService
	warehouses core.WarehouseService
	categories core.CategoryService
	products   core.ProductService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	store core.Store,
	inventory core.InventoryService,
	warehouses core.WarehouseService,
	categories core.CategoryService,
	products core.ProductService,
) ApplicationService {
	return &appService{
		store:      store,
		inventory:  inventory,
		warehouses: warehouses,
		categories: categories,
		products:   products,
	}
}

// NewFromStore builds every core service over store and wraps them in an ApplicationService.
// now is the engine clock; nil means time.Now.
func NewFromStore(store core.Store, logger *zap.Logger, now func() time.Time) ApplicationService {
	return NewAppService(
		store,
		core.NewInventoryService(store, logger, now),
		core.NewWarehouseService(store),
		core.NewCategoryService(store),
		core.NewProductService(store),
	)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ── Inventory ─────────────────────────────────────────────────────────────────

// AddInventory parses the optional expiration date and places the product.
func (s *appService) AddInventory(ctx context.Context, req AddInventoryRequest) (*core.InventoryItem, error) {
	in := core.AddInventoryInput{
		ProductPublicID: strings.TrimSpace(req.ProductPublicID),
		Quantity:        req.Quantity,
		StorageLocation: optionalString(req.StorageLocation),
	}
	if raw := strings.TrimSpace(req.ExpirationDate); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		in.ExpirationDate = &d
	}
	return s.inventory.AddProductToWarehouse(ctx, req.WarehouseID, in)
}

func (s *appService) RemoveInventory(ctx context.Context, warehouseID int64, productPublicID string) error {
	return s.inventory.DeleteInventory(ctx, warehouseID, strings.TrimSpace(productPublicID))
}

func (s *appService) TransferInventory(ctx context.Context, req TransferRequest) (*core.InventoryTransfer, error) {
	return s.inventory.TransferInventory(ctx, core.TransferInput{
		ProductPublicID:        strings.TrimSpace(req.ProductPublicID),
		SourceWarehouseID:      req.SourceWarehouseID,
		DestinationWarehouseID: req.DestinationWarehouseID,
		Notes:                  optionalString(req.Notes),
	})
}

func (s *appService) GetWarehouseInventory(ctx context.Context, warehouseID int64) (*core.WarehouseInventory, error) {
	return s.inventory.GetInventoryByWarehouse(ctx, warehouseID)
}

func (s *appService) ListInventory(ctx context.Context) (*InventoryListResult, error) {
	items, err := s.inventory.GetAllWarehousesInventory(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items}, nil
}

func (s *appService) ListExpiringInventory(ctx context.Context, days int) (*InventoryListResult, error) {
	items, err := s.inventory.GetNearingExpirationAlerts(ctx, days)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items}, nil
}

func (s *appService) ListExpiredInventory(ctx context.Context) (*InventoryListResult, error) {
	items, err := s.inventory.GetExpiredInventory(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items}, nil
}

// ListTransfers parses the optional warehouse id of the query.
func (s *appService) ListTransfers(ctx context.Context, query TransferQuery) (*TransferListResult, error) {
	filter := core.TransferFilter{ProductPublicID: strings.TrimSpace(query.ProductPublicID)}
	if raw := strings.TrimSpace(query.WarehouseID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: warehouseId %q must be an integer", core.ErrInvalidArgument, raw)
		}
		filter.WarehouseID = &id
	}
	transfers, err := s.inventory.GetTransfers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TransferListResult{Transfers: transfers}, nil
}

func (s *appService) CheckConsistency(ctx context.Context) (*core.ConsistencyReport, error) {
	return s.inventory.CheckConsistency(ctx)
}

// ── Warehouses ────────────────────────────────────────────────────────────────

func (s *appService) ListWarehouses(ctx context.Context) (*WarehouseListResult, error) {
	warehouses, err := s.warehouses.GetWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	return &WarehouseListResult{Warehouses: warehouses}, nil
}

func (s *appService) GetWarehouse(ctx context.Context, id int64) (*core.Warehouse, error) {
	return s.warehouses.GetWarehouse(ctx, id)
}

func (s *appService) CreateWarehouse(ctx context.Context, input core.WarehouseInput) (*core.Warehouse, error) {
	return s.warehouses.CreateWarehouse(ctx, input)
}

func (s *appService) UpdateWarehouse(ctx context.Context, id int64, input core.WarehouseInput) (*core.Warehouse, error) {
	return s.warehouses.UpdateWarehouse(ctx, id, input)
}

func (s *appService) PatchWarehouse(ctx context.Context, id int64, patch core.WarehousePatch) (*core.Warehouse, error) {
	return s.warehouses.PatchWarehouse(ctx, id, patch)
}

func (s *appService) DeleteWarehouse(ctx context.Context, id int64) error {
	return s.warehouses.DeleteWarehouse(ctx, id)
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) ListCategories(ctx context.Context) (*CategoryListResult, error) {
	categories, err := s.categories.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoryListResult{Categories: categories}, nil
}

func (s *appService) CreateCategory(ctx context.Context, input core.CategoryInput) (*core.Category, error) {
	return s.categories.CreateCategory(ctx, input)
}

func (s *appService) UpdateCategory(ctx context.Context, id int64, input core.CategoryInput) (*core.Category, error) {
	return s.categories.UpdateCategory(ctx, id, input)
}

func (s *appService) PatchCategory(ctx context.Context, id int64, patch core.CategoryPatch) (*core.Category, error) {
	return s.categories.PatchCategory(ctx, id, patch)
}

func (s *appService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.DeleteCategory(ctx, id)
}

func (s *appService) ListProducts(ctx context.Context, categoryID *int64) (*ProductListResult, error) {
	products, err := s.products.GetProducts(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, publicID string) (*core.Product, error) {
	return s.products.GetProduct(ctx, strings.TrimSpace(publicID))
}

func (s *appService) CreateProduct(ctx context.Context, input core.ProductInput) (*core.Product, error) {
	return s.products.CreateProduct(ctx, input)
}

func (s *appService) UpdateProduct(ctx context.Context, publicID string, input core.ProductInput) (*core.Product, error) {
	return s.products.UpdateProduct(ctx, strings.TrimSpace(publicID), input)
}

func (s *appService) PatchProduct(ctx context.Context, publicID string, patch core.ProductPatch) (*core.Product, error) {
	return s.products.PatchProduct(ctx, strings.TrimSpace(publicID), patch)
}

func (s *appService) DeleteProduct(ctx context.Context, publicID string) error {
	return s.products.DeleteProduct(ctx, strings.TrimSpace(publicID))
}

func (s *appService) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}
