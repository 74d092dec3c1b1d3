package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Service provides catalog business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProduct registers a product after checking SKU uniqueness.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if !req.UnitKind.Valid() {
		return nil, fmt.Errorf("catalog: unknown unit kind %q", req.UnitKind)
	}
	_, err := s.repo.GetBySKU(ctx, req.SKU)
	if err == nil {
		return nil, ErrSKUExists
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing sku: %w", err)
	}

	product, err := s.repo.Create(ctx, Product{
		SKU:      req.SKU,
		Name:     req.Name,
		UnitKind: req.UnitKind,
		Price:    req.Price,
		OnHand:   req.OnHand,
		IsActive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct applies partial updates. Stock is not editable here; it moves
// only through the inventory ledger.
func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProduct retrieves a product by id.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU retrieves a product by SKU.
func (s *Service) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	product, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns a filtered product listing plus the unfiltered total.
func (s *Service) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}
