// Package memory implements core.Store in process memory. It enforces the same keys and
// references as the PostgreSQL schema and is used by unit tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"reliable-inventory/internal/core"
)

type state struct {
	warehouses map[int64]core.Warehouse
	categories map[int64]core.Category
	products   map[int64]core.Product
	inventory  map[int64]core.InventoryRecord
	transfers  []core.InventoryTransfer

	lastWarehouse, lastCategory, lastProduct, lastInventory, lastTransfer int64
}

func newState() *state {
	return &state{
		warehouses: map[int64]core.Warehouse{},
		categories: map[int64]core.Category{},
		products:   map[int64]core.Product{},
		inventory:  map[int64]core.InventoryRecord{},
	}
}

func (s *state) clone() *state {
	c := *s
	c.warehouses = make(map[int64]core.Warehouse, len(s.warehouses))
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	c.categories = make(map[int64]core.Category, len(s.categories))
	for k, v := range s.categories {
		c.categories[k] = v
	}
	c.products = make(map[int64]core.Product, len(s.products))
	for k, v := range s.products {
		c.products[k] = v
	}
	c.inventory = make(map[int64]core.InventoryRecord, len(s.inventory))
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	c.transfers = append([]core.InventoryTransfer(nil), s.transfers...)
	return &c
}

// Store is an in-memory core.Store. Transactions are serialized: InTx holds the store
// mutex for the duration of fn and works on a copy of the state that replaces the
// committed state only when fn returns nil.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ core.Store = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(tx core.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{st: s.st.clone(), now: s.now}
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = t.st
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) read() *tx {
	return &tx{st: s.st, now: s.now}
}

func (s *Store) GetWarehouse(ctx context.Context, id int64) (*core.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().GetWarehouse(ctx, id)
}

func (s *Store) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ListWarehouses(ctx)
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().GetCategory(ctx, id)
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ListCategories(ctx)
}

func (s *Store) GetProductByPublicID(ctx context.Context, publicID string) (*core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().GetProductByPublicID(ctx, publicID)
}

func (s *Store) ListProducts(ctx context.Context, filter core.ProductFilter) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ListProducts(ctx, filter)
}

func (s *Store) ListInventory(ctx context.Context, filter core.InventoryFilter) ([]core.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ListInventory(ctx, filter)
}

func (s *Store) ListTransfers(ctx context.Context, filter core.TransferFilter) ([]core.InventoryTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ListTransfers(ctx, filter)
}

// tx implements core.Tx over a private state copy. Row locks are implicit because the
// whole store is locked while a transaction runs.
type tx struct {
	st  *state
	now func() time.Time
}

func (t *tx) stamp() time.Time {
	return t.now().UTC()
}

// ── Warehouses ────────────────────────────────────────────────────────────────

func (t *tx) GetWarehouse(_ context.Context, id int64) (*core.Warehouse, error) {
	w, ok := t.st.warehouses[id]
	if !ok {
		return nil, fmt.Errorf("warehouse %d: %w", id, core.ErrNotFound)
	}
	return &w, nil
}

func (t *tx) ListWarehouses(_ context.Context) ([]core.Warehouse, error) {
	out := make([]core.Warehouse, 0, len(t.st.warehouses))
	for _, w := range t.st.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) LockWarehouse(ctx context.Context, id int64) (*core.Warehouse, error) {
	return t.GetWarehouse(ctx, id)
}

func (t *tx) warehouseNameTaken(name string, exceptID int64) bool {
	for _, w := range t.st.warehouses {
		if w.ID != exceptID && w.Name == name {
			return true
		}
	}
	return false
}

func (t *tx) InsertWarehouse(_ context.Context, w *core.Warehouse) error {
	if t.warehouseNameTaken(w.Name, 0) {
		return fmt.Errorf("%w: warehouse name %q already exists", core.ErrConflict, w.Name)
	}
	t.st.lastWarehouse++
	w.ID = t.st.lastWarehouse
	w.CurrentCapacity = 0
	w.CreatedAt = t.stamp()
	w.UpdatedAt = w.CreatedAt
	t.st.warehouses[w.ID] = *w
	return nil
}

func (t *tx) UpdateWarehouse(_ context.Context, w *core.Warehouse) error {
	cur, ok := t.st.warehouses[w.ID]
	if !ok {
		return fmt.Errorf("warehouse %d: %w", w.ID, core.ErrNotFound)
	}
	if t.warehouseNameTaken(w.Name, w.ID) {
		return fmt.Errorf("%w: warehouse name %q already exists", core.ErrConflict, w.Name)
	}
	if w.MaxCapacity < cur.CurrentCapacity {
		return fmt.Errorf("%w: warehouse %d max capacity %d below current %d",
			core.ErrInvariantViolation, w.ID, w.MaxCapacity, cur.CurrentCapacity)
	}
	cur.Name = w.Name
	cur.Location = w.Location
	cur.MaxCapacity = w.MaxCapacity
	cur.UpdatedAt = t.stamp()
	t.st.warehouses[w.ID] = cur
	*w = cur
	return nil
}

// SetWarehouseCapacity rejects values outside 0..max the way the schema's check constraint does.
func (t *tx) SetWarehouseCapacity(_ context.Context, id int64, current int) error {
	w, ok := t.st.warehouses[id]
	if !ok {
		return fmt.Errorf("warehouse %d: %w", id, core.ErrNotFound)
	}
	if current < 0 || current > w.MaxCapacity {
		return fmt.Errorf("%w: warehouse %d capacity %d outside 0..%d",
			core.ErrInvariantViolation, id, current, w.MaxCapacity)
	}
	w.CurrentCapacity = current
	w.UpdatedAt = t.stamp()
	t.st.warehouses[id] = w
	return nil
}

func (t *tx) DeleteWarehouse(_ context.Context, id int64) error {
	if _, ok := t.st.warehouses[id]; !ok {
		return fmt.Errorf("warehouse %d: %w", id, core.ErrNotFound)
	}
	for _, rec := range t.st.inventory {
		if rec.WarehouseID == id {
			return fmt.Errorf("%w: warehouse %d is referenced by inventory", core.ErrConflict, id)
		}
	}
	for _, tr := range t.st.transfers {
		if tr.SourceWarehouseID == id || tr.DestinationWarehouseID == id {
			return fmt.Errorf("%w: warehouse %d is referenced by transfer history", core.ErrConflict, id)
		}
	}
	delete(t.st.warehouses, id)
	return nil
}

// ── Categories ────────────────────────────────────────────────────────────────

func (t *tx) GetCategory(_ context.Context, id int64) (*core.Category, error) {
	c, ok := t.st.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return &c, nil
}

func (t *tx) ListCategories(_ context.Context) ([]core.Category, error) {
	out := make([]core.Category, 0, len(t.st.categories))
	for _, c := range t.st.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *tx) CategoryNameTaken(_ context.Context, name string, exceptID int64) (bool, error) {
	for _, c := range t.st.categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (t *tx) InsertCategory(ctx context.Context, c *core.Category) error {
	if taken, _ := t.CategoryNameTaken(ctx, c.Name, 0); taken {
		return fmt.Errorf("%w: category %q already exists", core.ErrConflict, c.Name)
	}
	t.st.lastCategory++
	c.ID = t.st.lastCategory
	t.st.categories[c.ID] = *c
	return nil
}

func (t *tx) UpdateCategory(ctx context.Context, c *core.Category) error {
	if _, ok := t.st.categories[c.ID]; !ok {
		return fmt.Errorf("category %d: %w", c.ID, core.ErrNotFound)
	}
	if taken, _ := t.CategoryNameTaken(ctx, c.Name, c.ID); taken {
		return fmt.Errorf("%w: category %q already exists", core.ErrConflict, c.Name)
	}
	t.st.categories[c.ID] = *c
	return nil
}

func (t *tx) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := t.st.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	for _, p := range t.st.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return fmt.Errorf("%w: category %d is referenced by products", core.ErrConflict, id)
		}
	}
	delete(t.st.categories, id)
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

func (t *tx) productByPublicID(publicID string) (core.Product, bool) {
	for _, p := range t.st.products {
		if p.PublicID == publicID {
			return p, true
		}
	}
	return core.Product{}, false
}

func (t *tx) GetProductByPublicID(_ context.Context, publicID string) (*core.Product, error) {
	p, ok := t.productByPublicID(publicID)
	if !ok || p.IsDeleted {
		return nil, fmt.Errorf("product %s: %w", publicID, core.ErrNotFound)
	}
	return &p, nil
}

func (t *tx) LockProduct(ctx context.Context, publicID string) (*core.Product, error) {
	return t.GetProductByPublicID(ctx, publicID)
}

func (t *tx) ListProducts(_ context.Context, filter core.ProductFilter) ([]core.Product, error) {
	out := []core.Product{}
	for _, p := range t.st.products {
		if p.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) checkProductKeys(p *core.Product) error {
	for _, other := range t.st.products {
		if other.ID == p.ID {
			continue
		}
		if other.SKU == p.SKU {
			return fmt.Errorf("%w: sku %q already exists", core.ErrConflict, p.SKU)
		}
		if other.PublicID == p.PublicID {
			return fmt.Errorf("%w: product public id %s already exists", core.ErrConflict, p.PublicID)
		}
	}
	if p.CategoryID != nil {
		if _, ok := t.st.categories[*p.CategoryID]; !ok {
			return fmt.Errorf("%w: category %d does not exist", core.ErrConflict, *p.CategoryID)
		}
	}
	return nil
}

func (t *tx) InsertProduct(_ context.Context, p *core.Product) error {
	p.ID = 0
	if err := t.checkProductKeys(p); err != nil {
		return err
	}
	t.st.lastProduct++
	p.ID = t.st.lastProduct
	p.CreatedAt = t.stamp()
	p.UpdatedAt = p.CreatedAt
	t.st.products[p.ID] = *p
	return nil
}

func (t *tx) UpdateProduct(_ context.Context, p *core.Product) error {
	cur, ok := t.st.products[p.ID]
	if !ok {
		return fmt.Errorf("product %s: %w", p.PublicID, core.ErrNotFound)
	}
	if err := t.checkProductKeys(p); err != nil {
		return err
	}
	p.PublicID = cur.PublicID
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = t.stamp()
	t.st.products[p.ID] = *p
	return nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (t *tx) GetInventory(_ context.Context, warehouseID, productID int64) (*core.InventoryRecord, error) {
	for _, rec := range t.st.inventory {
		if rec.WarehouseID == warehouseID && rec.ProductID == productID {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("inventory for product %d in warehouse %d: %w", productID, warehouseID, core.ErrNotFound)
}

func (t *tx) GetInventoryByProduct(_ context.Context, productID int64) (*core.InventoryRecord, error) {
	for _, rec := range t.st.inventory {
		if rec.ProductID == productID {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("inventory for product %d: %w", productID, core.ErrNotFound)
}

func (t *tx) InsertInventory(_ context.Context, rec *core.InventoryRecord) error {
	if rec.Quantity < 1 {
		return fmt.Errorf("%w: inventory quantity %d must be positive", core.ErrInvariantViolation, rec.Quantity)
	}
	if _, ok := t.st.warehouses[rec.WarehouseID]; !ok {
		return fmt.Errorf("%w: warehouse %d does not exist", core.ErrConflict, rec.WarehouseID)
	}
	if _, ok := t.st.products[rec.ProductID]; !ok {
		return fmt.Errorf("%w: product %d does not exist", core.ErrConflict, rec.ProductID)
	}
	for _, other := range t.st.inventory {
		if other.ProductID == rec.ProductID {
			return fmt.Errorf("%w: product %d already has an inventory row in warehouse %d",
				core.ErrConflict, rec.ProductID, other.WarehouseID)
		}
	}
	t.st.lastInventory++
	rec.ID = t.st.lastInventory
	rec.CreatedAt = t.stamp()
	rec.UpdatedAt = rec.CreatedAt
	t.st.inventory[rec.ID] = *rec
	return nil
}

func (t *tx) DeleteInventory(_ context.Context, id int64) error {
	if _, ok := t.st.inventory[id]; !ok {
		return fmt.Errorf("inventory %d: %w", id, core.ErrNotFound)
	}
	delete(t.st.inventory, id)
	return nil
}

func matchesExpiry(rec core.InventoryRecord, f core.InventoryFilter) bool {
	if f.ExpiresFrom == nil && f.ExpiresTo == nil && f.ExpiresBefore == nil {
		return true
	}
	if rec.ExpirationDate == nil {
		return false
	}
	d := rec.ExpirationDate.Time
	if f.ExpiresFrom != nil && d.Before(f.ExpiresFrom.Time) {
		return false
	}
	if f.ExpiresTo != nil && d.After(f.ExpiresTo.Time) {
		return false
	}
	if f.ExpiresBefore != nil && !d.Before(f.ExpiresBefore.Time) {
		return false
	}
	return true
}

func (t *tx) ListInventory(_ context.Context, filter core.InventoryFilter) ([]core.InventoryItem, error) {
	items := []core.InventoryItem{}
	for _, rec := range t.st.inventory {
		if filter.WarehouseID != nil && rec.WarehouseID != *filter.WarehouseID {
			continue
		}
		product := t.st.products[rec.ProductID]
		if product.IsDeleted && !filter.IncludeDeletedProducts {
			continue
		}
		if !matchesExpiry(rec, filter) {
			continue
		}
		warehouse := t.st.warehouses[rec.WarehouseID]
		items = append(items, core.InventoryItem{
			InventoryRecord:   rec,
			WarehouseName:     warehouse.Name,
			WarehouseLocation: warehouse.Location,
			ProductPublicID:   product.PublicID,
			Product:           product,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].WarehouseID != items[j].WarehouseID {
			return items[i].WarehouseID < items[j].WarehouseID
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// ── Transfers ─────────────────────────────────────────────────────────────────

func (t *tx) InsertTransfer(_ context.Context, tr *core.InventoryTransfer) error {
	if _, ok := t.st.products[tr.ProductID]; !ok {
		return fmt.Errorf("%w: product %d does not exist", core.ErrConflict, tr.ProductID)
	}
	for _, id := range []int64{tr.SourceWarehouseID, tr.DestinationWarehouseID} {
		if _, ok := t.st.warehouses[id]; !ok {
			return fmt.Errorf("%w: warehouse %d does not exist", core.ErrConflict, id)
		}
	}
	t.st.lastTransfer++
	tr.ID = t.st.lastTransfer
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = t.stamp()
	}
	t.st.transfers = append(t.st.transfers, *tr)
	return nil
}

func (t *tx) ListTransfers(_ context.Context, filter core.TransferFilter) ([]core.InventoryTransfer, error) {
	out := []core.InventoryTransfer{}
	for _, tr := range t.st.transfers {
		if filter.ProductPublicID != "" && tr.ProductPublicID != filter.ProductPublicID {
			continue
		}
		if filter.WarehouseID != nil &&
			tr.SourceWarehouseID != *filter.WarehouseID && tr.DestinationWarehouseID != *filter.WarehouseID {
			continue
		}
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
