package catalog

import (
	"errors"
	"time"
)

// UnitKind tags how a product's on-hand quantity is counted.
type UnitKind string

const (
	// UnitCount is for piece goods; stock moves in whole units.
	UnitCount UnitKind = "count"
	// UnitWeight is for weighed goods; stock moves at full precision.
	UnitWeight UnitKind = "weight"
)

// Valid reports whether the unit kind is one of the known tags.
func (k UnitKind) Valid() bool {
	return k == UnitCount || k == UnitWeight
}

// Product represents a catalog product. OnHand is the single authoritative
// stock figure; UnitKind decides how deltas are applied to it.
type Product struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	UnitKind  UnitKind  `json:"unit_kind"`
	Price     float64   `json:"price"`
	OnHand    float64   `json:"on_hand"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest is the payload for registering a product.
type CreateProductRequest struct {
	SKU      string   `json:"sku" validate:"required,max=50"`
	Name     string   `json:"name" validate:"required,max=200"`
	UnitKind UnitKind `json:"unit_kind" validate:"required,oneof=count weight"`
	Price    float64  `json:"price" validate:"required,gt=0"`
	OnHand   float64  `json:"on_hand" validate:"gte=0"`
}

// UpdateProductRequest carries optional field updates.
type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}

var (
	// ErrNotFound indicates a missing product.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrSKUExists indicates a duplicate SKU on create.
	ErrSKUExists = errors.New("catalog: sku already exists")
)
