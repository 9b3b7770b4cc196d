package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reliable-inventory/internal/app"
	"reliable-inventory/internal/core"
	"reliable-inventory/internal/store/memory"
)

var fixedNow = time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New(memory.WithClock(func() time.Time { return fixedNow }))
	svc := app.NewFromStore(store, nil, func() time.Time { return fixedNow })
	srv := httptest.NewServer(NewHandler(svc, nil, "http://localhost:5173"))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		t.Fatalf("%s %s status = %d, want %d (error %q code %q)",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, e.Error, e.Code)
	}
}

func createWarehouse(t *testing.T, srv *httptest.Server, name string, max int) core.Warehouse {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/warehouses", map[string]any{
		"name": name, "location": "Yard " + name, "maxCapacity": max,
	})
	expectStatus(t, resp, http.StatusCreated)
	return decode[core.Warehouse](t, resp)
}

func createProduct(t *testing.T, srv *httptest.Server, sku string) core.Product {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/api/warehouse/products", map[string]any{
		"name": "Product " + sku, "sku": sku, "price": 4.5,
	})
	expectStatus(t, resp, http.StatusCreated)
	return decode[core.Product](t, resp)
}

func TestInventoryRoutes_EndToEnd(t *testing.T) {
	srv := newTestServer(t)
	w1 := createWarehouse(t, srv, "A", 100)
	w2 := createWarehouse(t, srv, "B", 100)
	p := createProduct(t, srv, "MILK-1")

	resp := do(t, srv, http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", w1.ID), map[string]any{
		"productPublicId": p.PublicID, "quantity": 40, "storageLocation": "R1", "expirationDate": "2025-03-15",
	})
	expectStatus(t, resp, http.StatusCreated)
	item := decode[map[string]any](t, resp)
	if item["productPublicId"] != p.PublicID || item["warehouseName"] != "A" || item["expirationDate"] != "2025-03-15" {
		t.Errorf("created item = %v", item)
	}

	resp = do(t, srv, http.MethodGet, fmt.Sprintf("/warehouses/inventory/%d", w1.ID), nil)
	expectStatus(t, resp, http.StatusOK)
	listing := decode[core.WarehouseInventory](t, resp)
	if listing.WarehouseName != "A" || len(listing.Inventory) != 1 {
		t.Errorf("warehouse listing = %+v", listing)
	}

	resp = do(t, srv, http.MethodGet, "/warehouses/inventory/alerts/expiring/5", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[[]map[string]any](t, resp); len(got) != 1 {
		t.Errorf("expiring within 5 days = %d rows, want 1", len(got))
	}
	resp = do(t, srv, http.MethodGet, "/warehouses/inventory/alerts/expiring/4", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[[]map[string]any](t, resp); len(got) != 0 {
		t.Errorf("expiring within 4 days = %d rows, want 0", len(got))
	}

	resp = do(t, srv, http.MethodPost, "/warehouses/inventory/transfer", map[string]any{
		"productPublicId": p.PublicID, "sourceWarehouseId": w1.ID, "destinationWarehouseId": w2.ID,
		"transferNotes": "rebalance",
	})
	expectStatus(t, resp, http.StatusNoContent)

	resp = do(t, srv, http.MethodGet, fmt.Sprintf("/warehouses/inventory/transfers?warehouseId=%d", w2.ID), nil)
	expectStatus(t, resp, http.StatusOK)
	transfers := decode[[]map[string]any](t, resp)
	if len(transfers) != 1 || transfers[0]["transferNotes"] != "rebalance" || transfers[0]["quantity"] != float64(40) {
		t.Errorf("transfers = %v", transfers)
	}

	resp = do(t, srv, http.MethodGet, "/warehouses", nil)
	expectStatus(t, resp, http.StatusOK)
	for _, w := range decode[[]core.Warehouse](t, resp) {
		want := map[int64]int{w1.ID: 0, w2.ID: 40}[w.ID]
		if w.CurrentCapacity != want {
			t.Errorf("warehouse %d capacity = %d, want %d", w.ID, w.CurrentCapacity, want)
		}
	}

	resp = do(t, srv, http.MethodDelete, fmt.Sprintf("/warehouses/inventory/%d/%s", w2.ID, p.PublicID), nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp = do(t, srv, http.MethodDelete, fmt.Sprintf("/warehouses/inventory/%d/%s", w2.ID, p.PublicID), nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, srv, http.MethodGet, "/warehouses/inventory", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[[]map[string]any](t, resp); len(got) != 0 {
		t.Errorf("all inventory = %d rows, want 0", len(got))
	}
}

func TestInventoryRoutes_ErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	small := createWarehouse(t, srv, "Small", 10)
	other := createWarehouse(t, srv, "Other", 10)
	p := createProduct(t, srv, "BOLT-1")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"capacity exceeded", http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", small.ID),
			map[string]any{"productPublicId": p.PublicID, "quantity": 11}, http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"},
		{"zero quantity", http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", small.ID),
			map[string]any{"productPublicId": p.PublicID, "quantity": 0}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad date", http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", small.ID),
			map[string]any{"productPublicId": p.PublicID, "quantity": 1, "expirationDate": "03/15/2025"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown warehouse", http.MethodPost, "/warehouses/inventory/999",
			map[string]any{"productPublicId": p.PublicID, "quantity": 1}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown product", http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", small.ID),
			map[string]any{"productPublicId": "00000000-0000-4000-8000-000000000000", "quantity": 1}, http.StatusNotFound, "NOT_FOUND"},
		{"non-numeric warehouse", http.MethodGet, "/warehouses/inventory/abc", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"days below one", http.MethodGet, "/warehouses/inventory/alerts/expiring/0", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"days beyond the alert window", http.MethodGet, "/warehouses/inventory/alerts/expiring/9223372036854775807", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"same warehouse transfer", http.MethodPost, "/warehouses/inventory/transfer",
			map[string]any{"productPublicId": p.PublicID, "sourceWarehouseId": small.ID, "destinationWarehouseId": small.ID},
			http.StatusBadRequest, "BAD_REQUEST"},
		{"transfer of unstocked product", http.MethodPost, "/warehouses/inventory/transfer",
			map[string]any{"productPublicId": p.PublicID, "sourceWarehouseId": small.ID, "destinationWarehouseId": other.ID},
			http.StatusNotFound, "NOT_FOUND"},
		{"invalid max capacity", http.MethodPost, "/warehouses",
			map[string]any{"name": "Zero", "location": "Nowhere", "maxCapacity": 0}, http.StatusBadRequest, "BAD_REQUEST"},
		{"duplicate warehouse name", http.MethodPost, "/warehouses",
			map[string]any{"name": "Small", "location": "Elsewhere", "maxCapacity": 5}, http.StatusConflict, "CONFLICT"},
		{"product without price", http.MethodPost, "/api/warehouse/products",
			map[string]any{"name": "Nut", "sku": "NUT-1"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown schema", http.MethodGet, "/api/schemas/nope", nil, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, srv, tc.method, tc.path, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			e := decode[errorResponse](t, resp)
			if e.Code != tc.code {
				t.Errorf("code = %q, want %q (error %q)", e.Code, tc.code, e.Error)
			}
			if e.RequestID == "" {
				t.Error("request_id is empty")
			}
		})
	}
}

func TestInventoryRoutes_SecondAddConflicts(t *testing.T) {
	srv := newTestServer(t)
	w1 := createWarehouse(t, srv, "One", 50)
	w2 := createWarehouse(t, srv, "Two", 50)
	p := createProduct(t, srv, "SOAP-1")

	body := map[string]any{"productPublicId": p.PublicID, "quantity": 5}
	expectStatus(t, do(t, srv, http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", w1.ID), body), http.StatusCreated)
	expectStatus(t, do(t, srv, http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", w2.ID), body), http.StatusConflict)
	expectStatus(t, do(t, srv, http.MethodDelete, "/api/warehouse/products/"+p.PublicID, nil), http.StatusConflict)
}

func TestCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/categories", map[string]any{"name": "Dairy"})
	expectStatus(t, resp, http.StatusCreated)
	cat := decode[core.Category](t, resp)

	expectStatus(t, do(t, srv, http.MethodPost, "/api/categories", map[string]any{"name": "dairy"}), http.StatusConflict)

	resp = do(t, srv, http.MethodPost, "/api/warehouse/products", map[string]any{
		"name": "Cheese", "sku": "CHEESE-1", "price": "12.50", "categoryId": cat.ID, "expirationRequired": true,
	})
	expectStatus(t, resp, http.StatusCreated)
	p := decode[core.Product](t, resp)

	resp = do(t, srv, http.MethodPatch, "/api/warehouse/products/"+p.PublicID, map[string]any{"name": "Aged Cheese"})
	expectStatus(t, resp, http.StatusOK)
	if got := decode[core.Product](t, resp); got.Name != "Aged Cheese" || got.SKU != "CHEESE-1" {
		t.Errorf("patched product = %+v", got)
	}

	resp = do(t, srv, http.MethodPut, "/api/warehouse/products/"+p.PublicID, map[string]any{
		"name": "Cheese", "sku": "CHEESE-1", "price": 10,
	})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodGet, fmt.Sprintf("/api/warehouse/products?categoryId=%d", cat.ID), nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[[]core.Product](t, resp); len(got) != 1 {
		t.Errorf("products in category = %d, want 1", len(got))
	}

	expectStatus(t, do(t, srv, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), nil), http.StatusConflict)
	expectStatus(t, do(t, srv, http.MethodDelete, "/api/warehouse/products/"+p.PublicID, nil), http.StatusNoContent)
	expectStatus(t, do(t, srv, http.MethodGet, "/api/warehouse/products/"+p.PublicID, nil), http.StatusNotFound)
}

func TestWarehouseRoutes_PatchBelowCurrent(t *testing.T) {
	srv := newTestServer(t)
	w := createWarehouse(t, srv, "Depot", 20)
	p := createProduct(t, srv, "TAPE-1")
	expectStatus(t, do(t, srv, http.MethodPost, fmt.Sprintf("/warehouses/inventory/%d", w.ID),
		map[string]any{"productPublicId": p.PublicID, "quantity": 15}), http.StatusCreated)

	expectStatus(t, do(t, srv, http.MethodPatch, fmt.Sprintf("/warehouses/%d", w.ID),
		map[string]any{"maxCapacity": 10}), http.StatusBadRequest)

	resp := do(t, srv, http.MethodPatch, fmt.Sprintf("/warehouses/%d", w.ID), map[string]any{"location": "Pier 9"})
	expectStatus(t, resp, http.StatusOK)
	got := decode[core.Warehouse](t, resp)
	if got.Location != "Pier 9" || got.MaxCapacity != 20 || got.CurrentCapacity != 15 {
		t.Errorf("patched warehouse = %+v", got)
	}

	expectStatus(t, do(t, srv, http.MethodDelete, fmt.Sprintf("/warehouses/%d", w.ID), nil), http.StatusConflict)
}

func TestHealthSchemasAndCORS(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/health", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[map[string]string](t, resp); got["status"] != "ok" {
		t.Errorf("health = %v", got)
	}

	resp = do(t, srv, http.MethodGet, "/api/schemas/transfer", nil)
	expectStatus(t, resp, http.StatusOK)
	schema := decode[map[string]any](t, resp)
	props, _ := schema["properties"].(map[string]any)
	if _, ok := props["sourceWarehouseId"]; !ok {
		t.Errorf("transfer schema properties = %v", props)
	}

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/warehouses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	preflight, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer preflight.Body.Close()
	if preflight.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", preflight.StatusCode)
	}
	if got := preflight.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	srv := newTestServer(t)
	huge := `{"name":"` + strings.Repeat("x", 1<<20) + `"}`
	resp, err := srv.Client().Post(srv.URL+"/api/categories", "application/json", strings.NewReader(huge))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("x: %w", core.ErrNotFound), 404, "NOT_FOUND"},
		{fmt.Errorf("x: %w", core.ErrConflict), 409, "CONFLICT"},
		{fmt.Errorf("x: %w", core.ErrCapacityExceeded), 422, "CAPACITY_EXCEEDED"},
		{fmt.Errorf("x: %w", core.ErrInvalidArgument), 400, "BAD_REQUEST"},
		{fmt.Errorf("x: %w", core.ErrInvariantViolation), 500, "INVARIANT_VIOLATION"},
		{fmt.Errorf("boom"), 500, "INTERNAL_ERROR"},
	}
	for _, tc := range tests {
		status, code := statusFor(tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("statusFor(%v) = (%d, %s), want (%d, %s)", tc.err, status, code, tc.status, tc.code)
		}
	}
}
