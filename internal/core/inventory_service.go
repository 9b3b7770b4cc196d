package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InventoryService places, removes and moves stock between warehouses.
//
// It maintains two rules across every committed operation:
//   - 0 <= CurrentCapacity <= MaxCapacity for every warehouse;
//   - a product holds at most one inventory row in the whole system.
//
// Each mutating operation runs in a single store transaction and locks the warehouse rows
// it touches before checking capacity.
type InventoryService interface {
	// AddProductToWarehouse creates the product's inventory row in the warehouse and claims capacity.
	// Fails with ErrConflict if the product is already stocked anywhere.
	AddProductToWarehouse(ctx context.Context, warehouseID int64, in AddInventoryInput) (*InventoryItem, error)
	// DeleteInventory removes the (warehouse, product) row and releases its capacity.
	DeleteInventory(ctx context.Context, warehouseID int64, productPublicID string) error
	// TransferInventory moves the full quantity of a product from source to destination and
	// appends one audit record, all in one transaction.
	TransferInventory(ctx context.Context, in TransferInput) (*InventoryTransfer, error)

	GetInventoryByWarehouse(ctx context.Context, warehouseID int64) (*WarehouseInventory, error)
	GetAllWarehousesInventory(ctx context.Context) ([]InventoryItem, error)
	// GetNearingExpirationAlerts returns rows expiring in [today, today+days], both ends inclusive.
	GetNearingExpirationAlerts(ctx context.Context, days int) ([]InventoryItem, error)
	// GetExpiredInventory returns rows whose expiration date is strictly before today.
	GetExpiredInventory(ctx context.Context) ([]InventoryItem, error)
	GetTransfers(ctx context.Context, filter TransferFilter) ([]InventoryTransfer, error)

	// CheckConsistency recomputes warehouse capacities from stock. It never repairs anything.
	CheckConsistency(ctx context.Context) (*ConsistencyReport, error)
}

type inventoryService struct {
	store  Store
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewInventoryService constructs an InventoryService over store. now supplies the clock used
// for expiration queries and audit timestamps; nil means time.Now.
func NewInventoryService(store Store, logger *zap.Logger, now func() time.Time) InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &inventoryService{
		store:  store,
		logger: logger.Named("inventory"),
		tracer: otel.Tracer("reliable-inventory/core"),
		now:    now,
	}
}

func (s *inventoryService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(attrs...))
}

// finish ends the span and escalates invariant violations to an error log operators can alert on.
func (s *inventoryService) finish(span trace.Span, op string, err error, fields ...zap.Field) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errors.Is(err, ErrInvariantViolation) {
		s.logger.Error("inventory invariant violated",
			append(fields, zap.String("operation", op), zap.Error(err))...)
	}
}

// ── Mutations ─────────────────────────────────────────────────────────────────

func (s *inventoryService) AddProductToWarehouse(ctx context.Context, warehouseID int64, in AddInventoryInput) (item *InventoryItem, err error) {
	ctx, span := s.start(ctx, "AddProductToWarehouse",
		attribute.Int64("warehouse.id", warehouseID),
		attribute.String("product.public_id", in.ProductPublicID),
		attribute.Int("inventory.quantity", in.Quantity),
	)
	defer func() {
		s.finish(span, "AddProductToWarehouse", err,
			zap.Int64("warehouse_id", warehouseID), zap.String("product", in.ProductPublicID))
	}()

	if in.ProductPublicID == "" {
		return nil, fmt.Errorf("%w: productPublicId is required", ErrInvalidArgument)
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidArgument, in.Quantity)
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		// Lock order is product, then warehouses. The product lock excludes a concurrent DeleteProduct.
		product, err := tx.LockProduct(ctx, in.ProductPublicID)
		if err != nil {
			return err
		}
		warehouse, err := tx.LockWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}

		// A product's stock lives in at most one warehouse system-wide.
		existing, err := tx.GetInventoryByProduct(ctx, product.ID)
		if err == nil {
			return fmt.Errorf("%w: product %s is already assigned to warehouse %d",
				ErrConflict, product.PublicID, existing.WarehouseID)
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := claimCapacity(warehouse, in.Quantity); err != nil {
			return err
		}
		if err := tx.SetWarehouseCapacity(ctx, warehouse.ID, warehouse.CurrentCapacity); err != nil {
			return fmt.Errorf("update warehouse %d capacity: %w", warehouse.ID, err)
		}

		rec := &InventoryRecord{
			WarehouseID:     warehouse.ID,
			ProductID:       product.ID,
			Quantity:        in.Quantity,
			StorageLocation: in.StorageLocation,
			ExpirationDate:  in.ExpirationDate,
		}
		// The store's uniqueness constraint catches a concurrent add of the same product
		// that passed the check above and reports it as ErrConflict.
		if err := tx.InsertInventory(ctx, rec); err != nil {
			return fmt.Errorf("insert inventory for product %s: %w", product.PublicID, err)
		}

		item = &InventoryItem{
			InventoryRecord:   *rec,
			WarehouseName:     warehouse.Name,
			WarehouseLocation: warehouse.Location,
			ProductPublicID:   product.PublicID,
			Product:           *product,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product added to warehouse",
		zap.Int64("warehouse_id", warehouseID),
		zap.String("product", in.ProductPublicID),
		zap.Int("quantity", in.Quantity))
	return item, nil
}

func (s *inventoryService) DeleteInventory(ctx context.Context, warehouseID int64, productPublicID string) (err error) {
	ctx, span := s.start(ctx, "DeleteInventory",
		attribute.Int64("warehouse.id", warehouseID),
		attribute.String("product.public_id", productPublicID),
	)
	defer func() {
		s.finish(span, "DeleteInventory", err,
			zap.Int64("warehouse_id", warehouseID), zap.String("product", productPublicID))
	}()

	err = s.store.InTx(ctx, func(tx Tx) error {
		warehouse, err := tx.LockWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		product, err := tx.GetProductByPublicID(ctx, productPublicID)
		if err != nil {
			return err
		}

		rec, err := tx.GetInventory(ctx, warehouse.ID, product.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: product %s is not stocked in warehouse %d",
					ErrNotFound, product.PublicID, warehouse.ID)
			}
			return err
		}

		if err := releaseCapacity(warehouse, rec.Quantity); err != nil {
			return err
		}
		if err := tx.DeleteInventory(ctx, rec.ID); err != nil {
			return fmt.Errorf("delete inventory %d: %w", rec.ID, err)
		}
		if err := tx.SetWarehouseCapacity(ctx, warehouse.ID, warehouse.CurrentCapacity); err != nil {
			return fmt.Errorf("update warehouse %d capacity: %w", warehouse.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("inventory removed from warehouse",
		zap.Int64("warehouse_id", warehouseID), zap.String("product", productPublicID))
	return nil
}

func (s *inventoryService) TransferInventory(ctx context.Context, in TransferInput) (transfer *InventoryTransfer, err error) {
	ctx, span := s.start(ctx, "TransferInventory",
		attribute.String("product.public_id", in.ProductPublicID),
		attribute.Int64("warehouse.source_id", in.SourceWarehouseID),
		attribute.Int64("warehouse.destination_id", in.DestinationWarehouseID),
	)
	defer func() {
		s.finish(span, "TransferInventory", err,
			zap.String("product", in.ProductPublicID),
			zap.Int64("source_warehouse_id", in.SourceWarehouseID),
			zap.Int64("destination_warehouse_id", in.DestinationWarehouseID))
	}()

	if in.SourceWarehouseID == in.DestinationWarehouseID {
		return nil, fmt.Errorf("%w: source and destination warehouses cannot be the same", ErrInvalidArgument)
	}
	if in.ProductPublicID == "" {
		return nil, fmt.Errorf("%w: productPublicId is required", ErrInvalidArgument)
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		product, err := tx.LockProduct(ctx, in.ProductPublicID)
		if err != nil {
			return err
		}
		source, destination, err := lockPair(ctx, tx, in.SourceWarehouseID, in.DestinationWarehouseID)
		if err != nil {
			return err
		}

		sourceRec, err := tx.GetInventory(ctx, source.ID, product.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: product %s is not stocked in source warehouse %d",
					ErrNotFound, product.PublicID, source.ID)
			}
			return err
		}
		quantity := sourceRec.Quantity
		if quantity <= 0 {
			return fmt.Errorf("%w: inventory %d has no quantity to transfer (%d)",
				ErrConflict, sourceRec.ID, quantity)
		}

		if err := claimCapacity(destination, quantity); err != nil {
			return err
		}
		if err := releaseCapacity(source, quantity); err != nil {
			return err
		}

		if err := tx.DeleteInventory(ctx, sourceRec.ID); err != nil {
			return fmt.Errorf("delete source inventory %d: %w", sourceRec.ID, err)
		}
		destRec := &InventoryRecord{
			WarehouseID:     destination.ID,
			ProductID:       product.ID,
			Quantity:        quantity,
			StorageLocation: sourceRec.StorageLocation,
			ExpirationDate:  sourceRec.ExpirationDate,
		}
		if err := tx.InsertInventory(ctx, destRec); err != nil {
			return fmt.Errorf("insert destination inventory: %w", err)
		}
		if err := tx.SetWarehouseCapacity(ctx, source.ID, source.CurrentCapacity); err != nil {
			return fmt.Errorf("update warehouse %d capacity: %w", source.ID, err)
		}
		if err := tx.SetWarehouseCapacity(ctx, destination.ID, destination.CurrentCapacity); err != nil {
			return fmt.Errorf("update warehouse %d capacity: %w", destination.ID, err)
		}

		t := &InventoryTransfer{
			ProductID:              product.ID,
			ProductPublicID:        product.PublicID,
			SourceWarehouseID:      source.ID,
			DestinationWarehouseID: destination.ID,
			Quantity:               quantity,
			Notes:                  in.Notes,
			CreatedAt:              s.now().UTC(),
		}
		if err := tx.InsertTransfer(ctx, t); err != nil {
			return fmt.Errorf("record transfer: %w", err)
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("inventory.quantity", transfer.Quantity))
	s.logger.Info("inventory transferred",
		zap.String("product", in.ProductPublicID),
		zap.Int64("source_warehouse_id", in.SourceWarehouseID),
		zap.Int64("destination_warehouse_id", in.DestinationWarehouseID),
		zap.Int("quantity", transfer.Quantity))
	return transfer, nil
}

// lockPair locks both warehouses in ascending id order so that two opposite-direction
// transfers cannot deadlock, and returns them as (source, destination).
func lockPair(ctx context.Context, tx Tx, sourceID, destID int64) (*Warehouse, *Warehouse, error) {
	firstID, secondID := sourceID, destID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := tx.LockWarehouse(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := tx.LockWarehouse(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}
	if first.ID == sourceID {
		return first, second, nil
	}
	return second, first, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *inventoryService) GetInventoryByWarehouse(ctx context.Context, warehouseID int64) (result *WarehouseInventory, err error) {
	ctx, span := s.start(ctx, "GetInventoryByWarehouse", attribute.Int64("warehouse.id", warehouseID))
	defer func() { s.finish(span, "GetInventoryByWarehouse", err) }()

	warehouse, err := s.store.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListInventory(ctx, InventoryFilter{WarehouseID: &warehouse.ID})
	if err != nil {
		return nil, fmt.Errorf("list inventory for warehouse %d: %w", warehouseID, err)
	}
	return &WarehouseInventory{
		WarehouseName:     warehouse.Name,
		WarehouseLocation: warehouse.Location,
		Inventory:         items,
	}, nil
}

func (s *inventoryService) GetAllWarehousesInventory(ctx context.Context) (items []InventoryItem, err error) {
	ctx, span := s.start(ctx, "GetAllWarehousesInventory")
	defer func() { s.finish(span, "GetAllWarehousesInventory", err) }()

	items, err = s.store.ListInventory(ctx, InventoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// MaxAlertDays bounds the expiring-alert window so the end date stays a valid calendar date.
const MaxAlertDays = 36500

func (s *inventoryService) GetNearingExpirationAlerts(ctx context.Context, days int) (items []InventoryItem, err error) {
	ctx, span := s.start(ctx, "GetNearingExpirationAlerts", attribute.Int("alert.days", days))
	defer func() { s.finish(span, "GetNearingExpirationAlerts", err) }()

	if days < 1 || days > MaxAlertDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidArgument, MaxAlertDays, days)
	}
	today := DateOf(s.now())
	until := today.AddDays(days)
	items, err = s.store.ListInventory(ctx, InventoryFilter{ExpiresFrom: &today, ExpiresTo: &until})
	if err != nil {
		return nil, fmt.Errorf("list expiring inventory: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetExpiredInventory(ctx context.Context) (items []InventoryItem, err error) {
	ctx, span := s.start(ctx, "GetExpiredInventory")
	defer func() { s.finish(span, "GetExpiredInventory", err) }()

	today := DateOf(s.now())
	items, err = s.store.ListInventory(ctx, InventoryFilter{ExpiresBefore: &today})
	if err != nil {
		return nil, fmt.Errorf("list expired inventory: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetTransfers(ctx context.Context, filter TransferFilter) (transfers []InventoryTransfer, err error) {
	ctx, span := s.start(ctx, "GetTransfers")
	defer func() { s.finish(span, "GetTransfers", err) }()

	transfers, err = s.store.ListTransfers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

func (s *inventoryService) CheckConsistency(ctx context.Context) (report *ConsistencyReport, err error) {
	ctx, span := s.start(ctx, "CheckConsistency")
	defer func() { s.finish(span, "CheckConsistency", err) }()

	report = &ConsistencyReport{}
	err = s.store.InTx(ctx, func(tx Tx) error {
		warehouses, err := tx.ListWarehouses(ctx)
		if err != nil {
			return fmt.Errorf("list warehouses: %w", err)
		}
		items, err := tx.ListInventory(ctx, InventoryFilter{IncludeDeletedProducts: true})
		if err != nil {
			return fmt.Errorf("list inventory: %w", err)
		}

		actual := make(map[int64]int, len(warehouses))
		rowsPerProduct := make(map[string]int)
		for _, it := range items {
			actual[it.WarehouseID] += it.Quantity
			rowsPerProduct[it.ProductPublicID]++
		}
		for _, w := range warehouses {
			sum := actual[w.ID]
			if sum != w.CurrentCapacity || w.CurrentCapacity < 0 || w.CurrentCapacity > w.MaxCapacity {
				report.Drift = append(report.Drift, CapacityDrift{
					WarehouseID: w.ID,
					Name:        w.Name,
					Recorded:    w.CurrentCapacity,
					Actual:      sum,
					Max:         w.MaxCapacity,
				})
			}
		}
		for publicID, n := range rowsPerProduct {
			if n > 1 {
				report.DuplicateProducts = append(report.DuplicateProducts, publicID)
			}
		}
		sort.Strings(report.DuplicateProducts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !report.OK() {
		s.logger.Error("inventory invariant violated",
			zap.String("operation", "CheckConsistency"),
			zap.Int("drifted_warehouses", len(report.Drift)),
			zap.Strings("duplicate_products", report.DuplicateProducts))
	}
	return report, nil
}
