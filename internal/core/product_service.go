package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ProductService provides product catalog operations. Products are identified externally
// by their public id and are soft-deleted.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	// GetProducts returns active products, optionally restricted to one category.
	GetProducts(ctx context.Context, categoryID *int64) ([]Product, error)
	GetProduct(ctx context.Context, publicID string) (*Product, error)
	// UpdateProduct replaces every mutable field. CategoryID is required.
	UpdateProduct(ctx context.Context, publicID string, input ProductInput) (*Product, error)
	PatchProduct(ctx context.Context, publicID string, patch ProductPatch) (*Product, error)
	// DeleteProduct soft-deletes the product. It fails with ErrConflict while the product
	// is still held in a warehouse.
	DeleteProduct(ctx context.Context, publicID string) error
}

type productService struct {
	store Store
}

// NewProductService constructs a ProductService over store.
func NewProductService(store Store) ProductService {
	return &productService{store: store}
}

func validateProduct(p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: product name is required", ErrInvalidArgument)
	case len(p.Name) > 200:
		return fmt.Errorf("%w: product name must be at most 200 characters", ErrInvalidArgument)
	case p.SKU == "":
		return fmt.Errorf("%w: product sku is required", ErrInvalidArgument)
	case len(p.SKU) > 100:
		return fmt.Errorf("%w: product sku must be at most 100 characters", ErrInvalidArgument)
	case p.Unit != nil && len(*p.Unit) > 50:
		return fmt.Errorf("%w: product unit must be at most 50 characters", ErrInvalidArgument)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: product price must not be negative, got %s", ErrInvalidArgument, p.Price)
	}
	return nil
}

// requireCategory fails with ErrNotFound if categoryID is set and does not exist.
func requireCategory(ctx context.Context, tx Tx, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if _, err := tx.GetCategory(ctx, *categoryID); err != nil {
		return fmt.Errorf("product category: %w", err)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	p := &Product{
		PublicID:           uuid.NewString(),
		Name:               input.Name,
		SKU:                input.SKU,
		Description:        input.Description,
		Unit:               input.Unit,
		IsHazardous:        input.IsHazardous,
		ExpirationRequired: input.ExpirationRequired,
		Price:              input.Price,
		CategoryID:         input.CategoryID,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	err := s.store.InTx(ctx, func(tx Tx) error {
		if err := requireCategory(ctx, tx, p.CategoryID); err != nil {
			return err
		}
		return tx.InsertProduct(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", input.SKU, err)
	}
	return p, nil
}

func (s *productService) GetProducts(ctx context.Context, categoryID *int64) ([]Product, error) {
	products, err := s.store.ListProducts(ctx, ProductFilter{CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, publicID string) (*Product, error) {
	return s.store.GetProductByPublicID(ctx, publicID)
}

func (s *productService) UpdateProduct(ctx context.Context, publicID string, input ProductInput) (*Product, error) {
	if input.CategoryID == nil {
		return nil, fmt.Errorf("%w: categoryId is required", ErrInvalidArgument)
	}
	return s.apply(ctx, publicID, func(p *Product) {
		p.Name = input.Name
		p.SKU = input.SKU
		p.Description = input.Description
		p.Unit = input.Unit
		p.IsHazardous = input.IsHazardous
		p.ExpirationRequired = input.ExpirationRequired
		p.Price = input.Price
		p.CategoryID = input.CategoryID
	})
}

func (s *productService) PatchProduct(ctx context.Context, publicID string, patch ProductPatch) (*Product, error) {
	return s.apply(ctx, publicID, func(p *Product) {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.SKU != nil {
			p.SKU = *patch.SKU
		}
		if patch.Description != nil {
			p.Description = patch.Description
		}
		if patch.Unit != nil {
			p.Unit = patch.Unit
		}
		if patch.IsHazardous != nil {
			p.IsHazardous = *patch.IsHazardous
		}
		if patch.ExpirationRequired != nil {
			p.ExpirationRequired = *patch.ExpirationRequired
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.CategoryID != nil {
			p.CategoryID = patch.CategoryID
		}
	})
}

func (s *productService) apply(ctx context.Context, publicID string, mutate func(*Product)) (*Product, error) {
	var updated *Product
	err := s.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProduct(ctx, publicID)
		if err != nil {
			return err
		}
		mutate(p)
		if err := validateProduct(p); err != nil {
			return err
		}
		if err := requireCategory(ctx, tx, p.CategoryID); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return fmt.Errorf("update product %s: %w", publicID, err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, publicID string) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProduct(ctx, publicID)
		if err != nil {
			return err
		}
		rec, err := tx.GetInventoryByProduct(ctx, p.ID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: product %s still holds %d units in warehouse %d",
				ErrConflict, publicID, rec.Quantity, rec.WarehouseID)
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("look up inventory for product %s: %w", publicID, err)
		}
		p.IsDeleted = true
		return tx.UpdateProduct(ctx, p)
	})
}
