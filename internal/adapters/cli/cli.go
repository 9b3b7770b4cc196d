package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reliable-inventory/internal/app"
)

// ErrUsage is returned when a command is unknown or called with the wrong arguments.
var ErrUsage = errors.New("usage")

// ErrInconsistent is returned by "check" when the consistency report is not clean.
var ErrInconsistent = errors.New("inventory is inconsistent")

// Execute runs one operator command and writes its output to w.
// args[0] is the subcommand name.
func Execute(ctx context.Context, svc app.ApplicationService, args []string, w io.Writer) error {
	if len(args) == 0 {
		printHelp(w)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch cmd {
	case "stock", "inv", "s":
		if len(args) == 0 {
			result, err := svc.ListInventory(ctx)
			if err != nil {
				return err
			}
			printInventory(w, "ALL WAREHOUSES", result.Items)
			return nil
		}
		id, err := parseID(args[0], "warehouse id")
		if err != nil {
			return err
		}
		result, err := svc.GetWarehouseInventory(ctx, id)
		if err != nil {
			return err
		}
		printInventory(w, fmt.Sprintf("%s (%s)", result.WarehouseName, result.WarehouseLocation), result.Inventory)

	case "alerts", "expiring":
		if len(args) < 1 {
			return fmt.Errorf("%w: invctl alerts <days>", ErrUsage)
		}
		days, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: days must be an integer, got %q", ErrUsage, args[0])
		}
		result, err := svc.ListExpiringInventory(ctx, days)
		if err != nil {
			return err
		}
		printInventory(w, fmt.Sprintf("EXPIRING WITHIN %d DAYS", days), result.Items)

	case "expired":
		result, err := svc.ListExpiredInventory(ctx)
		if err != nil {
			return err
		}
		printInventory(w, "EXPIRED", result.Items)

	case "add":
		if len(args) < 3 {
			return fmt.Errorf("%w: invctl add <warehouseId> <productPublicId> <qty> [location] [YYYY-MM-DD]", ErrUsage)
		}
		id, err := parseID(args[0], "warehouse id")
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: quantity must be an integer, got %q", ErrUsage, args[2])
		}
		req := app.AddInventoryRequest{WarehouseID: id, ProductPublicID: args[1], Quantity: qty}
		if len(args) >= 4 {
			req.StorageLocation = args[3]
		}
		if len(args) >= 5 {
			req.ExpirationDate = args[4]
		}
		item, err := svc.AddInventory(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Placed %d x %s in %s. Inventory id %d.\n",
			item.Quantity, item.Product.SKU, item.WarehouseName, item.ID)

	case "remove", "rm":
		if len(args) < 2 {
			return fmt.Errorf("%w: invctl remove <warehouseId> <productPublicId>", ErrUsage)
		}
		id, err := parseID(args[0], "warehouse id")
		if err != nil {
			return err
		}
		if err := svc.RemoveInventory(ctx, id, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %s from warehouse %d.\n", args[1], id)

	case "transfer", "mv":
		if len(args) < 3 {
			return fmt.Errorf("%w: invctl transfer <productPublicId> <sourceId> <destId> [notes]", ErrUsage)
		}
		src, err := parseID(args[1], "source warehouse id")
		if err != nil {
			return err
		}
		dst, err := parseID(args[2], "destination warehouse id")
		if err != nil {
			return err
		}
		t, err := svc.TransferInventory(ctx, app.TransferRequest{
			ProductPublicID:        args[0],
			SourceWarehouseID:      src,
			DestinationWarehouseID: dst,
			Notes:                  strings.Join(args[3:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Transferred %d units of %s from warehouse %d to %d. Transfer id %d.\n",
			t.Quantity, t.ProductPublicID, t.SourceWarehouseID, t.DestinationWarehouseID, t.ID)

	case "transfers", "history":
		q := app.TransferQuery{}
		if len(args) > 0 {
			q.ProductPublicID = args[0]
		}
		result, err := svc.ListTransfers(ctx, q)
		if err != nil {
			return err
		}
		printTransfers(w, result.Transfers)

	case "warehouses", "wh":
		result, err := svc.ListWarehouses(ctx)
		if err != nil {
			return err
		}
		printWarehouses(w, result)

	case "products":
		result, err := svc.ListProducts(ctx, nil)
		if err != nil {
			return err
		}
		printProducts(w, result)

	case "check":
		report, err := svc.CheckConsistency(ctx)
		if err != nil {
			return err
		}
		printReport(w, report)
		if !report.OK() {
			return ErrInconsistent
		}

	case "json":
		// Machine-readable dump of all stock.
		result, err := svc.ListInventory(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Items)

	case "help", "h":
		printHelp(w)

	default:
		return fmt.Errorf("%w: unknown command %q (try help)", ErrUsage, cmd)
	}
	return nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrUsage, what, raw)
	}
	return id, nil
}
