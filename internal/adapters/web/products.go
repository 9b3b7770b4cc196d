package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"reliable-inventory/internal/core"
)

// ProductBody is the body of POST /api/warehouse/products and PUT /api/warehouse/products/{publicId}.
// Price accepts a JSON number or a decimal string.
type ProductBody struct {
	Name               string           `json:"name" jsonschema:"required,maxLength=200"`
	SKU                string           `json:"sku" jsonschema:"required,maxLength=100"`
	Description        *string          `json:"description,omitempty"`
	Unit               *string          `json:"unit,omitempty" jsonschema:"maxLength=50"`
	IsHazardous        bool             `json:"isHazardous,omitempty"`
	ExpirationRequired bool             `json:"expirationRequired,omitempty"`
	Price              *decimal.Decimal `json:"price" jsonschema:"required,minimum=0"`
	CategoryID         *int64           `json:"categoryId,omitempty"`
}

// ProductPatchBody is the body of PATCH /api/warehouse/products/{publicId}.
type ProductPatchBody struct {
	Name               *string          `json:"name,omitempty" jsonschema:"maxLength=200"`
	SKU                *string          `json:"sku,omitempty" jsonschema:"maxLength=100"`
	Description        *string          `json:"description,omitempty"`
	Unit               *string          `json:"unit,omitempty" jsonschema:"maxLength=50"`
	IsHazardous        *bool            `json:"isHazardous,omitempty"`
	ExpirationRequired *bool            `json:"expirationRequired,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty" jsonschema:"minimum=0"`
	CategoryID         *int64           `json:"categoryId,omitempty"`
}

// input builds the service input, writing a 400 when price is missing.
func (b ProductBody) input(w http.ResponseWriter, r *http.Request) (core.ProductInput, bool) {
	if b.Price == nil {
		writeError(w, r, "price is required", "BAD_REQUEST", http.StatusBadRequest)
		return core.ProductInput{}, false
	}
	return core.ProductInput{
		Name:               b.Name,
		SKU:                b.SKU,
		Description:        b.Description,
		Unit:               b.Unit,
		IsHazardous:        b.IsHazardous,
		ExpirationRequired: b.ExpirationRequired,
		Price:              *b.Price,
		CategoryID:         b.CategoryID,
	}, true
}

// listProducts handles GET /api/warehouse/products[?categoryId=].
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID *int64
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, "categoryId must be an integer", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}
	result, err := h.svc.ListProducts(r.Context(), categoryID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body ProductBody
	if !decodeJSON(w, r, &body) {
		return
	}
	input, ok := body.input(w, r)
	if !ok {
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var body ProductBody
	if !decodeJSON(w, r, &body) {
		return
	}
	input, ok := body.input(w, r)
	if !ok {
		return
	}
	product, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "publicId"), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) patchProduct(w http.ResponseWriter, r *http.Request) {
	var body ProductPatchBody
	if !decodeJSON(w, r, &body) {
		return
	}
	product, err := h.svc.PatchProduct(r.Context(), chi.URLParam(r, "publicId"), core.ProductPatch{
		Name:               body.Name,
		SKU:                body.SKU,
		Description:        body.Description,
		Unit:               body.Unit,
		IsHazardous:        body.IsHazardous,
		ExpirationRequired: body.ExpirationRequired,
		Price:              body.Price,
		CategoryID:         body.CategoryID,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
