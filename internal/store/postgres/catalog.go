package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reliable-inventory/internal/core"
)

// ── Categories ────────────────────────────────────────────────────────────────

func (r reader) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	c := &core.Category{}
	err := r.q.QueryRow(ctx, `
		SELECT category_id, name, description
		FROM categories
		WHERE category_id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("category %d", id))
	}
	return c, nil
}

func (r reader) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.q.Query(ctx, `
		SELECT category_id, name, description
		FROM categories
		ORDER BY lower(name), category_id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (t *tx) CategoryNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var taken bool
	err := t.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE lower(name) = lower($1) AND category_id <> $2
		)`, name, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check category name %q: %w", name, err)
	}
	return taken, nil
}

func (t *tx) InsertCategory(ctx context.Context, c *core.Category) error {
	err := t.q.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING category_id`,
		c.Name, c.Description,
	).Scan(&c.ID)
	return mapError(err, fmt.Sprintf("insert category %q", c.Name))
}

func (t *tx) UpdateCategory(ctx context.Context, c *core.Category) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE categories
		SET name = $2, description = $3
		WHERE category_id = $1`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return mapError(err, fmt.Sprintf("update category %d", c.ID))
	}
	return expectOne(tag, fmt.Sprintf("category %d", c.ID))
}

func (t *tx) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, id)
	if err != nil {
		return mapError(err, fmt.Sprintf("delete category %d", id))
	}
	return expectOne(tag, fmt.Sprintf("category %d", id))
}

// ── Products ──────────────────────────────────────────────────────────────────

const productColumns = `p.product_id, p.public_id::text, p.name, p.sku, p.description, p.unit,
	p.is_hazardous, p.expiration_required, p.price, p.is_deleted, p.category_id,
	p.created_at, p.updated_at`

func productDest(p *core.Product) []any {
	return []any{
		&p.ID, &p.PublicID, &p.Name, &p.SKU, &p.Description, &p.Unit,
		&p.IsHazardous, &p.ExpirationRequired, &p.Price, &p.IsDeleted, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

func (r reader) productByPublicID(ctx context.Context, publicID string, lock bool) (*core.Product, error) {
	// public_id is a uuid column, so a malformed id matches nothing.
	if _, err := uuid.Parse(publicID); err != nil {
		return nil, fmt.Errorf("product %s: %w", publicID, core.ErrNotFound)
	}
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.public_id = $1 AND NOT p.is_deleted`
	if lock {
		query += ` FOR UPDATE`
	}
	p := &core.Product{}
	if err := r.q.QueryRow(ctx, query, publicID).Scan(productDest(p)...); err != nil {
		return nil, mapError(err, fmt.Sprintf("product %s", publicID))
	}
	return p, nil
}

func (r reader) GetProductByPublicID(ctx context.Context, publicID string) (*core.Product, error) {
	return r.productByPublicID(ctx, publicID, false)
}

func (t *tx) LockProduct(ctx context.Context, publicID string) (*core.Product, error) {
	return t.productByPublicID(ctx, publicID, true)
}

func (r reader) ListProducts(ctx context.Context, filter core.ProductFilter) ([]core.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE ($1::bigint IS NULL OR p.category_id = $1)
		  AND ($2::boolean OR NOT p.is_deleted)
		ORDER BY p.product_id`,
		filter.CategoryID, filter.IncludeDeleted)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []core.Product{}
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(productDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (t *tx) InsertProduct(ctx context.Context, p *core.Product) error {
	err := t.q.QueryRow(ctx, `
		INSERT INTO products (public_id, name, sku, description, unit, is_hazardous,
		                      expiration_required, price, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING product_id, created_at, updated_at`,
		p.PublicID, p.Name, p.SKU, p.Description, p.Unit, p.IsHazardous,
		p.ExpirationRequired, p.Price, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err, fmt.Sprintf("insert product %q", p.SKU))
}

func (t *tx) UpdateProduct(ctx context.Context, p *core.Product) error {
	err := t.q.QueryRow(ctx, `
		UPDATE products
		SET name = $2, sku = $3, description = $4, unit = $5, is_hazardous = $6,
		    expiration_required = $7, price = $8, category_id = $9, is_deleted = $10,
		    updated_at = now()
		WHERE product_id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.SKU, p.Description, p.Unit, p.IsHazardous,
		p.ExpirationRequired, p.Price, p.CategoryID, p.IsDeleted,
	).Scan(&p.UpdatedAt)
	return mapError(err, fmt.Sprintf("update product %s", p.PublicID))
}
