package customers

import (
	"errors"
	"time"
)

// CreditTerms classifies how a customer settles purchases.
type CreditTerms string

const (
	// TermsCash customers settle at the counter.
	TermsCash CreditTerms = "cash"
	// TermsCredit customers carry a balance against a due date.
	TermsCredit CreditTerms = "credit"
)

// Customer carries the credit terms the sale boundary needs when a credit
// sale arrives without an explicit due date.
type Customer struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Phone        *string     `json:"phone,omitempty"`
	Email        *string     `json:"email,omitempty"`
	CustomerType CreditTerms `json:"customer_type"`
	CreditDays   int         `json:"credit_days"`
	CreditLimit  float64     `json:"credit_limit"`
	Notes        *string     `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// DueDateFrom computes the default credit due date from the customer's
// terms. The sale transaction manager never infers a due date itself; the
// boundary calls this before handing the request over.
func (c Customer) DueDateFrom(now time.Time) *time.Time {
	if c.CreditDays <= 0 {
		return nil
	}
	due := now.AddDate(0, 0, c.CreditDays)
	return &due
}

// CreateCustomerRequest is the payload for registering a customer.
type CreateCustomerRequest struct {
	Name         string      `json:"name" validate:"required,min=2,max=100"`
	Phone        *string     `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email        *string     `json:"email,omitempty" validate:"omitempty,email"`
	CustomerType CreditTerms `json:"customer_type,omitempty" validate:"omitempty,oneof=cash credit"`
	CreditDays   int         `json:"credit_days" validate:"gte=0"`
	CreditLimit  float64     `json:"credit_limit" validate:"gte=0"`
	Notes        *string     `json:"notes,omitempty"`
}

// UpdateCustomerRequest carries optional field updates.
type UpdateCustomerRequest struct {
	Name         *string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone        *string      `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email        *string      `json:"email,omitempty" validate:"omitempty,email"`
	CustomerType *CreditTerms `json:"customer_type,omitempty" validate:"omitempty,oneof=cash credit"`
	CreditDays   *int         `json:"credit_days,omitempty" validate:"omitempty,gte=0"`
	CreditLimit  *float64     `json:"credit_limit,omitempty" validate:"omitempty,gte=0"`
	Notes        *string      `json:"notes,omitempty"`
}

// ErrNotFound indicates a missing customer.
var ErrNotFound = errors.New("customers: customer not found")
