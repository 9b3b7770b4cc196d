package core

import (
	"context"
	"fmt"
	"strings"
)

// WarehouseService provides warehouse master data operations.
// Current capacity is owned by InventoryService and cannot be set here.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, input WarehouseInput) (*Warehouse, error)
	GetWarehouses(ctx context.Context) ([]Warehouse, error)
	GetWarehouse(ctx context.Context, id int64) (*Warehouse, error)
	// UpdateWarehouse replaces name, location and max capacity.
	UpdateWarehouse(ctx context.Context, id int64, input WarehouseInput) (*Warehouse, error)
	// PatchWarehouse applies only the non-nil fields of patch.
	PatchWarehouse(ctx context.Context, id int64, patch WarehousePatch) (*Warehouse, error)
	// DeleteWarehouse fails with ErrConflict while the warehouse holds stock.
	DeleteWarehouse(ctx context.Context, id int64) error
}

type warehouseService struct {
	store Store
}

// NewWarehouseService constructs a WarehouseService over store.
func NewWarehouseService(store Store) WarehouseService {
	return &warehouseService{store: store}
}

func validateWarehouse(w *Warehouse) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Location = strings.TrimSpace(w.Location)
	if w.Name == "" {
		return fmt.Errorf("%w: warehouse name is required", ErrInvalidArgument)
	}
	if len(w.Name) > 150 {
		return fmt.Errorf("%w: warehouse name must be at most 150 characters", ErrInvalidArgument)
	}
	if w.Location == "" {
		return fmt.Errorf("%w: warehouse location is required", ErrInvalidArgument)
	}
	if w.MaxCapacity < 1 {
		return fmt.Errorf("%w: maximum capacity must be at least 1, got %d", ErrInvalidArgument, w.MaxCapacity)
	}
	if w.MaxCapacity < w.CurrentCapacity {
		return fmt.Errorf("%w: maximum capacity %d is below current capacity %d",
			ErrInvalidArgument, w.MaxCapacity, w.CurrentCapacity)
	}
	return nil
}

// CreateWarehouse inserts a new, empty warehouse.
func (s *warehouseService) CreateWarehouse(ctx context.Context, input WarehouseInput) (*Warehouse, error) {
	w := &Warehouse{
		Name:        input.Name,
		Location:    input.Location,
		MaxCapacity: input.MaxCapacity,
	}
	if err := validateWarehouse(w); err != nil {
		return nil, err
	}
	err := s.store.InTx(ctx, func(tx Tx) error {
		return tx.InsertWarehouse(ctx, w)
	})
	if err != nil {
		return nil, fmt.Errorf("create warehouse %q: %w", input.Name, err)
	}
	return w, nil
}

// GetWarehouses returns all warehouses ordered by id.
func (s *warehouseService) GetWarehouses(ctx context.Context) ([]Warehouse, error) {
	warehouses, err := s.store.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get warehouses: %w", err)
	}
	return warehouses, nil
}

func (s *warehouseService) GetWarehouse(ctx context.Context, id int64) (*Warehouse, error) {
	return s.store.GetWarehouse(ctx, id)
}

func (s *warehouseService) UpdateWarehouse(ctx context.Context, id int64, input WarehouseInput) (*Warehouse, error) {
	return s.PatchWarehouse(ctx, id, WarehousePatch{
		Name:        &input.Name,
		Location:    &input.Location,
		MaxCapacity: &input.MaxCapacity,
	})
}

// PatchWarehouse locks the row so a concurrent placement cannot raise current capacity
// above the new maximum between the check and the write.
func (s *warehouseService) PatchWarehouse(ctx context.Context, id int64, patch WarehousePatch) (*Warehouse, error) {
	var updated *Warehouse
	err := s.store.InTx(ctx, func(tx Tx) error {
		w, err := tx.LockWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			w.Name = *patch.Name
		}
		if patch.Location != nil {
			w.Location = *patch.Location
		}
		if patch.MaxCapacity != nil {
			w.MaxCapacity = *patch.MaxCapacity
		}
		if err := validateWarehouse(w); err != nil {
			return err
		}
		if err := tx.UpdateWarehouse(ctx, w); err != nil {
			return fmt.Errorf("update warehouse %d: %w", id, err)
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *warehouseService) DeleteWarehouse(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		w, err := tx.LockWarehouse(ctx, id)
		if err != nil {
			return err
		}
		items, err := tx.ListInventory(ctx, InventoryFilter{WarehouseID: &w.ID, IncludeDeletedProducts: true})
		if err != nil {
			return fmt.Errorf("list inventory for warehouse %d: %w", id, err)
		}
		if len(items) > 0 || w.CurrentCapacity != 0 {
			return fmt.Errorf("%w: warehouse %d still holds %d inventory rows", ErrConflict, id, len(items))
		}
		if err := tx.DeleteWarehouse(ctx, id); err != nil {
			return fmt.Errorf("delete warehouse %d: %w", id, err)
		}
		return nil
	})
}
