package receivables

import (
	"errors"
	"time"
)

var (
	// ErrSaleNotFound indicates a payment against a missing sale.
	ErrSaleNotFound = errors.New("receivables: sale not found")
	// ErrNoBalance indicates the sale has nothing left to pay.
	ErrNoBalance = errors.New("receivables: sale has no outstanding balance")
	// ErrInvalidAmount indicates a non-positive payment amount.
	ErrInvalidAmount = errors.New("receivables: amount must be positive")
	// ErrOverPayment indicates a payment larger than the outstanding balance.
	// Overpayments are rejected outright, never clamped.
	ErrOverPayment = errors.New("receivables: amount exceeds outstanding balance")
)

// Payment is an append-only row advancing a sale's paid amount.
type Payment struct {
	ID        int64     `json:"id"`
	SaleID    int64     `json:"sale_id"`
	Amount    float64   `json:"amount"`
	Method    *string   `json:"method,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddPaymentRequest is the payload for posting a payment.
type AddPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method *string `json:"method,omitempty" validate:"omitempty,max=30"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=300"`
}

// SaleBalance is the slice of a sale the payment poster operates on.
type SaleBalance struct {
	ID            int64
	Folio         string
	CustomerID    *int64
	PaymentMethod string
	Total         float64
	PaidAmount    float64
	CreditDueDate *time.Time
	CreatedAt     time.Time
}

// Outstanding is the balance still owed.
func (s SaleBalance) Outstanding() float64 {
	return s.Total - s.PaidAmount
}

// Open reports whether the sale still counts as a debt. A freshly created,
// fully unpaid credit sale is open even before any payment activity. This is
// the single definition shared by every read path.
func (s SaleBalance) Open() bool {
	return s.Outstanding() > 0 || s.PaymentMethod == "credit"
}

// Overdue reports whether the open sale is past its due date with money
// still owed.
func (s SaleBalance) Overdue(now time.Time) bool {
	return s.CreditDueDate != nil && s.CreditDueDate.Before(now) && s.Outstanding() > 0
}

// OpenSale is one open debt in a customer's receivables view.
type OpenSale struct {
	SaleID        int64      `json:"sale_id"`
	Folio         string     `json:"folio"`
	Total         float64    `json:"total"`
	PaidAmount    float64    `json:"paid_amount"`
	Outstanding   float64    `json:"outstanding"`
	CreditDueDate *time.Time `json:"credit_due_date,omitempty"`
	Overdue       bool       `json:"overdue"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CustomerReceivables aggregates one customer's open debts.
type CustomerReceivables struct {
	CustomerID int64      `json:"customer_id"`
	TotalDue   float64    `json:"total_due"`
	DebtCount  int        `json:"debt_count"`
	Items      []OpenSale `json:"items"`
}

// SummaryRow is one customer in the global who-owes-what view. NextDueDate is
// the nearest due date among the customer's open sales.
type SummaryRow struct {
	CustomerID   int64      `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Due          float64    `json:"due"`
	DebtCount    int        `json:"debt_count"`
	NextDueDate  *time.Time `json:"next_due_date,omitempty"`
}

// PaymentResult pairs the new payment with the updated sale balance.
type PaymentResult struct {
	Payment Payment     `json:"payment"`
	Sale    SaleBalance `json:"-"`

	SaleID      int64   `json:"sale_id"`
	Folio       string  `json:"folio"`
	Total       float64 `json:"total"`
	PaidAmount  float64 `json:"paid_amount"`
	Outstanding float64 `json:"outstanding"`
}
