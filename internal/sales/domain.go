package sales

import (
	"errors"
	"fmt"
	"time"
)

// PaymentMethod is how a sale is settled at the counter.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCredit   PaymentMethod = "credit"
	MethodCard     PaymentMethod = "card"
	MethodOther    PaymentMethod = "other"
)

// Valid reports whether the method is one of the known tags.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCredit, MethodCard, MethodOther:
		return true
	}
	return false
}

// IsCredit reports whether the sale settles over time against a due date.
func (m PaymentMethod) IsCredit() bool {
	return m == MethodCredit
}

var (
	// ErrEmptyCart indicates a sale request without line items.
	ErrEmptyCart = errors.New("sales: empty cart")
	// ErrUnknownProduct indicates a line referencing a missing product.
	ErrUnknownProduct = errors.New("sales: unknown product")
	// ErrInvalidTotal indicates a computed sale total that is not positive.
	ErrInvalidTotal = errors.New("sales: total must be positive")
	// ErrNotFound indicates a missing sale.
	ErrNotFound = errors.New("sales: sale not found")
)

// UnknownProductError names the offending line's product id. It unwraps to
// ErrUnknownProduct.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("sales: unknown product %d", e.ProductID)
}

func (e *UnknownProductError) Unwrap() error {
	return ErrUnknownProduct
}

// Sale is immutable once created except for PaidAmount, which only the
// payment poster advances.
type Sale struct {
	ID            int64         `json:"id"`
	Folio         string        `json:"folio"`
	CustomerID    *int64        `json:"customer_id,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         float64       `json:"total"`
	PaidAmount    float64       `json:"paid_amount"`
	CreditDueDate *time.Time    `json:"credit_due_date,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	Lines         []SaleLine    `json:"lines,omitempty"`
}

// Outstanding is the balance still owed on the sale.
func (s Sale) Outstanding() float64 {
	return s.Total - s.PaidAmount
}

// SaleLine captures the price at the moment of sale; it is never re-derived
// from the catalog afterwards.
type SaleLine struct {
	ID          int64   `json:"id"`
	SaleID      int64   `json:"sale_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductSKU  string  `json:"product_sku"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	LineTotal   float64 `json:"line_total"`
}

// SaleItemRequest is one cart line. A non-positive unit price falls back to
// the catalog price.
type SaleItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Discount  float64 `json:"discount" validate:"gte=0"`
}

// CreateSaleRequest is the payload for checkout.
type CreateSaleRequest struct {
	CustomerID    *int64            `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	PaymentMethod PaymentMethod     `json:"payment_method" validate:"required,oneof=cash transfer credit card other"`
	Items         []SaleItemRequest `json:"items" validate:"dive"`
	Notes         *string           `json:"notes,omitempty" validate:"omitempty,max=500"`
	CreditDueDate *time.Time        `json:"credit_due_date,omitempty"`
}

// ListFilters narrows sale listings.
type ListFilters struct {
	CustomerID int64
	Limit      int
	Offset     int
}
