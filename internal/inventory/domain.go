package inventory

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInsufficientStock indicates a stock movement would push on-hand
	// below zero.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
	// ErrInvalidQuantity indicates a non-positive ingress quantity.
	ErrInvalidQuantity = errors.New("inventory: quantity must be positive")
	// ErrUnknownProduct indicates a stock movement against a missing product.
	ErrUnknownProduct = errors.New("inventory: unknown product")
)

// StockError reports which product blocked a movement. It unwraps to
// ErrInsufficientStock so callers can branch on the sentinel.
type StockError struct {
	ProductID int64
	Product   string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for %q (id %d)", e.Product, e.ProductID)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// Lot is a traceability record for a received batch. Lots never participate
// in costing; on-hand stock lives on the product row.
type Lot struct {
	ID             int64      `json:"id"`
	ProductID      int64      `json:"product_id"`
	Quantity       float64    `json:"quantity"`
	Cost           *float64   `json:"cost,omitempty"`
	LotCode        *string    `json:"lot_code,omitempty"`
	ArrivalDate    time.Time  `json:"arrival_date"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IngressRequest is the payload for receiving merchandise.
type IngressRequest struct {
	ProductID      int64      `json:"product_id" validate:"required,gt=0"`
	Quantity       float64    `json:"quantity" validate:"required,gt=0"`
	Cost           *float64   `json:"cost,omitempty" validate:"omitempty,gte=0"`
	LotCode        *string    `json:"lot_code,omitempty" validate:"omitempty,max=100"`
	ArrivalDate    *time.Time `json:"arrival_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// AdjustRequest is the payload for a manual stock correction. Delta may be
// negative for waste and shrinkage.
type AdjustRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Delta     float64 `json:"delta" validate:"required"`
	Reason    string  `json:"reason" validate:"required,max=300"`
}

// LotFilters narrows lot listings.
type LotFilters struct {
	ProductID int64
	Limit     int
	Offset    int
}
