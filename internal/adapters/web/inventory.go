package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reliable-inventory/internal/app"
)

// AddInventoryBody is the body of POST /warehouses/inventory/{warehouseId}.
type AddInventoryBody struct {
	ProductPublicID string `json:"productPublicId" jsonschema:"required,format=uuid"`
	Quantity        int    `json:"quantity" jsonschema:"required,minimum=1"`
	StorageLocation string `json:"storageLocation,omitempty"`
	ExpirationDate  string `json:"expirationDate,omitempty" jsonschema:"format=date"`
}

// TransferBody is the body of POST /warehouses/inventory/transfer.
type TransferBody struct {
	ProductPublicID        string `json:"productPublicId" jsonschema:"required,format=uuid"`
	SourceWarehouseID      int64  `json:"sourceWarehouseId" jsonschema:"required,minimum=1"`
	DestinationWarehouseID int64  `json:"destinationWarehouseId" jsonschema:"required,minimum=1"`
	TransferNotes          string `json:"transferNotes,omitempty"`
}

// addInventory handles POST /warehouses/inventory/{warehouseId}.
func (h *Handler) addInventory(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathID(w, r, "warehouseId")
	if !ok {
		return
	}
	var body AddInventoryBody
	if !decodeJSON(w, r, &body) {
		return
	}
	item, err := h.svc.AddInventory(r.Context(), app.AddInventoryRequest{
		WarehouseID:     warehouseID,
		ProductPublicID: body.ProductPublicID,
		Quantity:        body.Quantity,
		StorageLocation: body.StorageLocation,
		ExpirationDate:  body.ExpirationDate,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, item)
}

// getWarehouseInventory handles GET /warehouses/inventory/{warehouseId}.
func (h *Handler) getWarehouseInventory(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathID(w, r, "warehouseId")
	if !ok {
		return
	}
	result, err := h.svc.GetWarehouseInventory(r.Context(), warehouseID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listInventory handles GET /warehouses/inventory.
func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInventory(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Items)
}

// transferInventory handles POST /warehouses/inventory/transfer. The audit record is
// available from GET /warehouses/inventory/transfers.
func (h *Handler) transferInventory(w http.ResponseWriter, r *http.Request) {
	var body TransferBody
	if !decodeJSON(w, r, &body) {
		return
	}
	_, err := h.svc.TransferInventory(r.Context(), app.TransferRequest{
		ProductPublicID:        body.ProductPublicID,
		SourceWarehouseID:      body.SourceWarehouseID,
		DestinationWarehouseID: body.DestinationWarehouseID,
		Notes:                  body.TransferNotes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeInventory handles DELETE /warehouses/inventory/{warehouseId}/{productPublicId}.
func (h *Handler) removeInventory(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathID(w, r, "warehouseId")
	if !ok {
		return
	}
	if err := h.svc.RemoveInventory(r.Context(), warehouseID, chi.URLParam(r, "productPublicId")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expiringInventory handles GET /warehouses/inventory/alerts/expiring/{days}.
func (h *Handler) expiringInventory(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "days")
	days, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, "days must be an integer, got "+strconv.Quote(raw), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.ListExpiringInventory(r.Context(), days)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Items)
}

// expiredInventory handles GET /warehouses/inventory/alerts/expired.
func (h *Handler) expiredInventory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListExpiredInventory(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Items)
}

// listTransfers handles GET /warehouses/inventory/transfers?productPublicId=&warehouseId=.
func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListTransfers(r.Context(), app.TransferQuery{
		ProductPublicID: q.Get("productPublicId"),
		WarehouseID:     q.Get("warehouseId"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Transfers)
}
