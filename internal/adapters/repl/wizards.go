package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reliable-inventory/internal/app"
)

// handleAdd runs a guided placement: it lists warehouses, prompts for each field and
// submits one AddInventory request.
func handleAdd(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, w io.Writer) {
	warehouses, err := svc.ListWarehouses(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if len(warehouses.Warehouses) == 0 {
		fmt.Fprintln(w, "No warehouses exist yet.")
		return
	}
	fmt.Fprintln(w, "Placing a product. Type 'cancel' at any prompt to abort.")
	for _, wh := range warehouses.Warehouses {
		fmt.Fprintf(w, "  [%d] %s  %d/%d used\n", wh.ID, wh.Name, wh.CurrentCapacity, wh.MaxCapacity)
	}

	prompt := func(label string) (string, bool) {
		fmt.Fprintf(w, "%s: ", label)
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, "cancel") {
			fmt.Fprintln(w, "Cancelled.")
			return "", false
		}
		return raw, true
	}

	raw, ok := prompt("Warehouse id")
	if !ok {
		return
	}
	warehouseID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(w, "Invalid warehouse id: %s\n", raw)
		return
	}

	productID, ok := prompt("Product public id")
	if !ok {
		return
	}

	raw, ok = prompt("Quantity")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 1 {
		fmt.Fprintf(w, "Invalid quantity: %s\n", raw)
		return
	}

	location, ok := prompt("Storage location (optional)")
	if !ok {
		return
	}
	expires, ok := prompt("Expiration date (YYYY-MM-DD, optional)")
	if !ok {
		return
	}

	item, err := svc.AddInventory(ctx, app.AddInventoryRequest{
		WarehouseID:     warehouseID,
		ProductPublicID: productID,
		Quantity:        qty,
		StorageLocation: location,
		ExpirationDate:  expires,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Placed %d x %s in %s (inventory id %d).\n",
		item.Quantity, item.Product.SKU, item.WarehouseName, item.ID)
}
