package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"reliable-inventory/internal/app"
)

// Handler serves the HTTP routes over the ApplicationService.
type Handler struct {
	svc    app.ApplicationService
	logger *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, logger *zap.Logger, allowedOrigins string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, logger: logger.Named("http")}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(Recoverer(h.logger))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Health and schemas ────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/schemas/{name}", h.schema)

	// ── Inventory ─────────────────────────────────────────────────────────────
	r.Route("/warehouses/inventory", func(r chi.Router) {
		r.Get("/", h.listInventory)
		r.Post("/transfer", h.transferInventory)
		r.Get("/transfers", h.listTransfers)
		r.Get("/alerts/expiring/{days}", h.expiringInventory)
		r.Get("/alerts/expired", h.expiredInventory)
		r.Get("/{warehouseId}", h.getWarehouseInventory)
		r.Post("/{warehouseId}", h.addInventory)
		r.Delete("/{warehouseId}/{productPublicId}", h.removeInventory)
	})

	// ── Warehouses ────────────────────────────────────────────────────────────
	r.Get("/warehouses", h.listWarehouses)
	r.Post("/warehouses", h.createWarehouse)
	r.Get("/warehouses/{id}", h.getWarehouse)
	r.Put("/warehouses/{id}", h.updateWarehouse)
	r.Patch("/warehouses/{id}", h.patchWarehouse)
	r.Delete("/warehouses/{id}", h.deleteWarehouse)

	// ── Catalog ───────────────────────────────────────────────────────────────
	r.Get("/api/categories", h.listCategories)
	r.Post("/api/categories", h.createCategory)
	r.Put("/api/categories/{id}", h.updateCategory)
	r.Patch("/api/categories/{id}", h.patchCategory)
	r.Delete("/api/categories/{id}", h.deleteCategory)

	r.Get("/api/warehouse/products", h.listProducts)
	r.Post("/api/warehouse/products", h.createProduct)
	r.Get("/api/warehouse/products/{publicId}", h.getProduct)
	r.Put("/api/warehouse/products/{publicId}", h.updateProduct)
	r.Patch("/api/warehouse/products/{publicId}", h.patchProduct)
	r.Delete("/api/warehouse/products/{publicId}", h.deleteProduct)

	return r
}

// health pings the store.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	if err := h.svc.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeError(w, r, "store unavailable", "UNAVAILABLE", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, response{Status: "ok"})
}

// pathID parses the named URL parameter as a positive integer id, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, fmt.Sprintf("%s must be a positive integer, got %q", name, raw), "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
