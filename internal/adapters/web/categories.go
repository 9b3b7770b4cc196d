package web

import (
	"net/http"

	"reliable-inventory/internal/core"
)

// CategoryBody is the body of POST /api/categories and PUT /api/categories/{id}.
type CategoryBody struct {
	Name        string  `json:"name" jsonschema:"required,maxLength=150"`
	Description *string `json:"description,omitempty" jsonschema:"maxLength=300"`
}

// CategoryPatchBody is the body of PATCH /api/categories/{id}.
type CategoryPatchBody struct {
	Name        *string `json:"name,omitempty" jsonschema:"maxLength=150"`
	Description *string `json:"description,omitempty" jsonschema:"maxLength=300"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body CategoryBody
	if !decodeJSON(w, r, &body) {
		return
	}
	category, err := h.svc.CreateCategory(r.Context(), core.CategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body CategoryBody
	if !decodeJSON(w, r, &body) {
		return
	}
	category, err := h.svc.UpdateCategory(r.Context(), id, core.CategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, category)
}

func (h *Handler) patchCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body CategoryPatchBody
	if !decodeJSON(w, r, &body) {
		return
	}
	category, err := h.svc.PatchCategory(r.Context(), id, core.CategoryPatch{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
