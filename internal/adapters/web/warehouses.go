package web

import (
	"net/http"

	"reliable-inventory/internal/core"
)

// WarehouseBody is the body of POST /warehouses and PUT /warehouses/{id}.
// currentCapacity is derived from stock and is ignored if sent.
type WarehouseBody struct {
	Name        string `json:"name" jsonschema:"required,maxLength=150"`
	Location    string `json:"location" jsonschema:"required"`
	MaxCapacity int    `json:"maxCapacity" jsonschema:"required,minimum=1"`
}

// WarehousePatchBody is the body of PATCH /warehouses/{id}. Absent fields are unchanged.
type WarehousePatchBody struct {
	Name        *string `json:"name,omitempty" jsonschema:"maxLength=150"`
	Location    *string `json:"location,omitempty"`
	MaxCapacity *int    `json:"maxCapacity,omitempty" jsonschema:"minimum=1"`
}

func (b WarehouseBody) input() core.WarehouseInput {
	return core.WarehouseInput{Name: b.Name, Location: b.Location, MaxCapacity: b.MaxCapacity}
}

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListWarehouses(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Warehouses)
}

func (h *Handler) getWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	warehouse, err := h.svc.GetWarehouse(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, warehouse)
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var body WarehouseBody
	if !decodeJSON(w, r, &body) {
		return
	}
	warehouse, err := h.svc.CreateWarehouse(r.Context(), body.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, warehouse)
}

func (h *Handler) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body WarehouseBody
	if !decodeJSON(w, r, &body) {
		return
	}
	warehouse, err := h.svc.UpdateWarehouse(r.Context(), id, body.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, warehouse)
}

func (h *Handler) patchWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body WarehousePatchBody
	if !decodeJSON(w, r, &body) {
		return
	}
	warehouse, err := h.svc.PatchWarehouse(r.Context(), id, core.WarehousePatch{
		Name:        body.Name,
		Location:    body.Location,
		MaxCapacity: body.MaxCapacity,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, warehouse)
}

func (h *Handler) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteWarehouse(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
