package core_test

import (
	"errors"
	"strings"
	"testing"

	"reliable-inventory/internal/core"
)

func TestWarehouseService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	f.warehouse(t, "Taken", 10)

	tests := []struct {
		name  string
		input core.WarehouseInput
		want  error
	}{
		{"blank name", core.WarehouseInput{Name: "  ", Location: "X", MaxCapacity: 1}, core.ErrInvalidArgument},
		{"long name", core.WarehouseInput{Name: strings.Repeat("n", 151), Location: "X", MaxCapacity: 1}, core.ErrInvalidArgument},
		{"blank location", core.WarehouseInput{Name: "New", MaxCapacity: 1}, core.ErrInvalidArgument},
		{"zero max", core.WarehouseInput{Name: "New", Location: "X", MaxCapacity: 0}, core.ErrInvalidArgument},
		{"duplicate name", core.WarehouseInput{Name: "Taken", Location: "X", MaxCapacity: 5}, core.ErrConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.warehouses.CreateWarehouse(f.ctx, tc.input); !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWarehouseService_CreateStartsEmpty(t *testing.T) {
	f := newFixture(t)
	w := f.warehouse(t, "  Padded  ", 25)
	if w.ID == 0 || w.Name != "Padded" || w.CurrentCapacity != 0 || w.MaxCapacity != 25 {
		t.Errorf("created warehouse = %+v", w)
	}
	if w.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestWarehouseService_PatchAndUpdate(t *testing.T) {
	f := newFixture(t)
	w := f.warehouse(t, "Depot", 20)
	p := f.product(t, "FILL")
	f.add(t, w.ID, p.PublicID, 15, nil)

	tooSmall := 14
	if _, err := f.warehouses.PatchWarehouse(f.ctx, w.ID, core.WarehousePatch{MaxCapacity: &tooSmall}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("shrink below current error = %v, want ErrInvalidArgument", err)
	}

	exact := 15
	got, err := f.warehouses.PatchWarehouse(f.ctx, w.ID, core.WarehousePatch{MaxCapacity: &exact})
	if err != nil {
		t.Fatalf("shrink to current: %v", err)
	}
	if got.MaxCapacity != 15 || got.CurrentCapacity != 15 || got.Name != "Depot" {
		t.Errorf("patched = %+v", got)
	}

	got, err = f.warehouses.UpdateWarehouse(f.ctx, w.ID, core.WarehouseInput{Name: "Depot 2", Location: "North", MaxCapacity: 40})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Depot 2" || got.Location != "North" || got.CurrentCapacity != 15 {
		t.Errorf("updated = %+v", got)
	}

	if _, err := f.warehouses.UpdateWarehouse(f.ctx, 999, core.WarehouseInput{Name: "Z", Location: "Z", MaxCapacity: 1}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("update unknown error = %v, want ErrNotFound", err)
	}
}

func TestWarehouseService_Delete(t *testing.T) {
	f := newFixture(t)
	full := f.warehouse(t, "Full", 20)
	empty := f.warehouse(t, "Empty", 20)
	p := f.product(t, "HOLD")
	f.add(t, full.ID, p.PublicID, 1, nil)

	if err := f.warehouses.DeleteWarehouse(f.ctx, full.ID); !errors.Is(err, core.ErrConflict) {
		t.Errorf("delete stocked warehouse error = %v, want ErrConflict", err)
	}
	if err := f.warehouses.DeleteWarehouse(f.ctx, empty.ID); err != nil {
		t.Fatalf("delete empty warehouse: %v", err)
	}
	if _, err := f.warehouses.GetWarehouse(f.ctx, empty.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get deleted warehouse error = %v, want ErrNotFound", err)
	}

	// A warehouse that appears in transfer history cannot be deleted.
	other := f.warehouse(t, "Other", 20)
	if _, err := f.inventory.TransferInventory(f.ctx, core.TransferInput{
		ProductPublicID: p.PublicID, SourceWarehouseID: full.ID, DestinationWarehouseID: other.ID,
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := f.warehouses.DeleteWarehouse(f.ctx, full.ID); !errors.Is(err, core.ErrConflict) {
		t.Errorf("delete warehouse with history error = %v, want ErrConflict", err)
	}

	all, err := f.warehouses.GetWarehouses(f.ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != full.ID || all[1].ID != other.ID {
		t.Errorf("remaining warehouses = %+v", all)
	}
}
