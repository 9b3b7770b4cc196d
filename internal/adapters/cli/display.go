package cli

import (
	"fmt"
	"io"
	"strings"

	"reliable-inventory/internal/app"
	"reliable-inventory/internal/core"
)

func printInventory(w io.Writer, title string, items []core.InventoryItem) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 90))
	fmt.Fprintf(w, "  INVENTORY: %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 90))
	if len(items) == 0 {
		fmt.Fprintln(w, "  No inventory found.")
		fmt.Fprintln(w, strings.Repeat("=", 90))
		return
	}
	fmt.Fprintf(w, "  %-16s %-24s %-14s %8s %-10s %s\n", "SKU", "PRODUCT", "WAREHOUSE", "QTY", "LOCATION", "EXPIRES")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	total := 0
	for _, it := range items {
		fmt.Fprintf(w, "  %-16s %-24s %-14s %8d %-10s %s\n",
			truncate(it.Product.SKU, 16),
			truncate(it.Product.Name, 24),
			truncate(it.WarehouseName, 14),
			it.Quantity,
			truncate(deref(it.StorageLocation), 10),
			dateOrDash(it.ExpirationDate),
		)
		total += it.Quantity
	}
	fmt.Fprintln(w, strings.Repeat("-", 90))
	fmt.Fprintf(w, "  %-56s %8d\n", "TOTAL", total)
	fmt.Fprintln(w, strings.Repeat("=", 90))
}

func printTransfers(w io.Writer, transfers []core.InventoryTransfer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 90))
	fmt.Fprintln(w, "  TRANSFER HISTORY")
	fmt.Fprintln(w, strings.Repeat("=", 90))
	if len(transfers) == 0 {
		fmt.Fprintln(w, "  No transfers recorded.")
		fmt.Fprintln(w, strings.Repeat("=", 90))
		return
	}
	fmt.Fprintf(w, "  %-5s %-20s %-38s %5s %5s %6s\n", "ID", "WHEN", "PRODUCT", "FROM", "TO", "QTY")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, t := range transfers {
		fmt.Fprintf(w, "  %-5d %-20s %-38s %5d %5d %6d\n",
			t.ID, t.CreatedAt.UTC().Format("2006-01-02 15:04:05"), t.ProductPublicID,
			t.SourceWarehouseID, t.DestinationWarehouseID, t.Quantity)
		if t.Notes != nil {
			fmt.Fprintf(w, "        %s\n", *t.Notes)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 90))
}

func printWarehouses(w io.Writer, result *app.WarehouseListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w, "  WAREHOUSES")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if len(result.Warehouses) == 0 {
		fmt.Fprintln(w, "  No warehouses found.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	fmt.Fprintf(w, "  %-5s %-24s %-14s %6s %6s\n", "ID", "NAME", "LOCATION", "USED", "MAX")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, wh := range result.Warehouses {
		fmt.Fprintf(w, "  %-5d %-24s %-14s %6d %6d\n",
			wh.ID, truncate(wh.Name, 24), truncate(wh.Location, 14), wh.CurrentCapacity, wh.MaxCapacity)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printProducts(w io.Writer, result *app.ProductListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "  PRODUCTS")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	if len(result.Products) == 0 {
		fmt.Fprintln(w, "  No products found.")
		fmt.Fprintln(w, strings.Repeat("=", 80))
		return
	}
	fmt.Fprintf(w, "  %-36s %-14s %-16s %10s\n", "PUBLIC ID", "SKU", "NAME", "PRICE")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, p := range result.Products {
		fmt.Fprintf(w, "  %-36s %-14s %-16s %10s\n",
			p.PublicID, truncate(p.SKU, 14), truncate(p.Name, 16), p.Price.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func printReport(w io.Writer, report *core.ConsistencyReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w, "  CONSISTENCY CHECK")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if report.OK() {
		fmt.Fprintln(w, "  OK: every warehouse capacity matches its stock.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	if len(report.Drift) > 0 {
		fmt.Fprintf(w, "  %-5s %-24s %9s %9s %9s\n", "ID", "WAREHOUSE", "RECORDED", "ACTUAL", "MAX")
		fmt.Fprintln(w, strings.Repeat("-", 62))
		for _, d := range report.Drift {
			fmt.Fprintf(w, "  %-5d %-24s %9d %9d %9d\n", d.WarehouseID, truncate(d.Name, 24), d.Recorded, d.Actual, d.Max)
		}
	}
	for _, id := range report.DuplicateProducts {
		fmt.Fprintf(w, "  product %s holds more than one inventory row\n", id)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "INVCTL COMMANDS")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  STOCK")
	fmt.Fprintln(w, "  stock [warehouseId]                         List stock")
	fmt.Fprintln(w, "  add <wh> <product> <qty> [loc] [date]       Place a product")
	fmt.Fprintln(w, "  remove <wh> <product>                       Remove a product's stock")
	fmt.Fprintln(w, "  transfer <product> <src> <dst> [notes]      Move all stock")
	fmt.Fprintln(w, "  transfers [product]                         Transfer history")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ALERTS")
	fmt.Fprintln(w, "  alerts <days>                               Expiring within days")
	fmt.Fprintln(w, "  expired                                     Already expired")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  MASTER DATA")
	fmt.Fprintln(w, "  warehouses                                  List warehouses")
	fmt.Fprintln(w, "  products                                    List products")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  OPERATIONS")
	fmt.Fprintln(w, "  check                                       Recompute capacities")
	fmt.Fprintln(w, "  json                                        Dump stock as JSON")
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func dateOrDash(d *core.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
