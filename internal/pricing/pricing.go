// Package pricing computes sale line totals at the counter.
package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidLine indicates a line whose price or resulting total is not
// acceptable. Zero-amount and negative lines are rejected outright: giving
// product away must go through a discounted-but-positive line, never a free
// one.
var ErrInvalidLine = errors.New("pricing: invalid line")

// Line is a priced sale line.
type Line struct {
	Quantity  float64
	UnitPrice float64
	Discount  float64
	Total     float64
}

// PriceLine prices a requested quantity. A non-positive requested unit price
// falls back to the catalog price. The discount is clamped to
// [0, quantity*unitPrice] before the positivity check, so an oversized
// discount caps at the subtotal and then fails the check rather than
// producing a negative total.
func PriceLine(quantity, unitPrice, catalogPrice, discount float64) (Line, error) {
	if quantity <= 0 {
		return Line{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidLine)
	}
	price := unitPrice
	if price <= 0 {
		price = catalogPrice
	}
	if price <= 0 {
		return Line{}, fmt.Errorf("%w: unit price must be positive", ErrInvalidLine)
	}

	subtotal := quantity * price
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	total := subtotal - discount
	if total <= 0 {
		return Line{}, fmt.Errorf("%w: line total must be positive", ErrInvalidLine)
	}

	return Line{
		Quantity:  quantity,
		UnitPrice: price,
		Discount:  discount,
		Total:     total,
	}, nil
}
