package repl_test

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"reliable-inventory/internal/adapters/repl"
	"reliable-inventory/internal/app"
	"reliable-inventory/internal/core"
	"reliable-inventory/internal/store/memory"
)

func TestRun_GuidedAddThenCommands(t *testing.T) {
	ctx := context.Background()
	svc := app.NewFromStore(memory.New(), nil, nil)
	if _, err := svc.CreateWarehouse(ctx, core.WarehouseInput{Name: "Annex", Location: "Rear", MaxCapacity: 30}); err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	p, err := svc.CreateProduct(ctx, core.ProductInput{Name: "Glue", SKU: "GLUE-1", Price: decimal.NewFromInt(3)})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	script := strings.Join([]string{
		"/add",
		"1",
		p.PublicID,
		"7",
		"",
		"",
		"/stock 1",
		"nonsense",
		"/exit",
		"stock", // never reached
	}, "\n") + "\n"

	var out bytes.Buffer
	repl.Run(ctx, svc, bufio.NewReader(strings.NewReader(script)), &out)

	got := out.String()
	for _, want := range []string{
		"[1] Annex  0/30 used",
		"Placed 7 x GLUE-1 in Annex",
		"INVENTORY: Annex (Rear)",
		"Error: usage: unknown command \"nonsense\"",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	inv, err := svc.GetWarehouseInventory(ctx, 1)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if len(inv.Inventory) != 1 || inv.Inventory[0].Quantity != 7 || inv.Inventory[0].StorageLocation != nil {
		t.Errorf("inventory = %+v", inv.Inventory)
	}
}

func TestRun_StopsAtEOF(t *testing.T) {
	svc := app.NewFromStore(memory.New(), nil, nil)
	var out bytes.Buffer
	repl.Run(context.Background(), svc, bufio.NewReader(strings.NewReader("warehouses")), &out)
	if !strings.Contains(out.String(), "No warehouses found.") {
		t.Errorf("output = %q", out.String())
	}
}
