package core

import (
	"context"
	"fmt"
	"strings"
)

// CategoryService provides category master data operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*Category, error)
	// GetCategories returns all categories ordered by name.
	GetCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*Category, error)
	PatchCategory(ctx context.Context, id int64, patch CategoryPatch) (*Category, error)
	// DeleteCategory fails with ErrConflict while any product, deleted or not, references it.
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	store Store
}

// NewCategoryService constructs a CategoryService over store.
func NewCategoryService(store Store) CategoryService {
	return &categoryService{store: store}
}

func validateCategory(c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidArgument)
	}
	if len(c.Name) > 150 {
		return fmt.Errorf("%w: category name must be at most 150 characters", ErrInvalidArgument)
	}
	if c.Description != nil && len(*c.Description) > 300 {
		return fmt.Errorf("%w: category description must be at most 300 characters", ErrInvalidArgument)
	}
	return nil
}

// ensureUniqueName enforces case-insensitive category name uniqueness.
func ensureUniqueName(ctx context.Context, tx Tx, name string, exceptID int64) error {
	taken, err := tx.CategoryNameTaken(ctx, name, exceptID)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	return nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	c := &Category{Name: input.Name, Description: input.Description}
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	err := s.store.InTx(ctx, func(tx Tx) error {
		if err := ensureUniqueName(ctx, tx, c.Name, 0); err != nil {
			return err
		}
		return tx.InsertCategory(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("create category %q: %w", input.Name, err)
	}
	return c, nil
}

func (s *categoryService) GetCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory replaces both fields; a nil description clears it.
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*Category, error) {
	return s.apply(ctx, id, func(c *Category) {
		c.Name = input.Name
		c.Description = input.Description
	})
}

func (s *categoryService) PatchCategory(ctx context.Context, id int64, patch CategoryPatch) (*Category, error) {
	return s.apply(ctx, id, func(c *Category) {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = patch.Description
		}
	})
}

func (s *categoryService) apply(ctx context.Context, id int64, mutate func(*Category)) (*Category, error) {
	var updated *Category
	err := s.store.InTx(ctx, func(tx Tx) error {
		c, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		mutate(c)
		if err := validateCategory(c); err != nil {
			return err
		}
		if err := ensureUniqueName(ctx, tx, c.Name, c.ID); err != nil {
			return err
		}
		if err := tx.UpdateCategory(ctx, c); err != nil {
			return fmt.Errorf("update category %d: %w", id, err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return err
		}
		products, err := tx.ListProducts(ctx, ProductFilter{CategoryID: &id, IncludeDeleted: true})
		if err != nil {
			return fmt.Errorf("list products in category %d: %w", id, err)
		}
		if len(products) > 0 {
			return fmt.Errorf("%w: category %d is referenced by %d products", ErrConflict, id, len(products))
		}
		return tx.DeleteCategory(ctx, id)
	})
}
