package receivables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/db"
)

// CustomerSale pairs a sale balance with its customer's display name for the
// global summary.
type CustomerSale struct {
	Balance      SaleBalance
	CustomerName string
}

// TxRepository exposes the writes available inside the payment transaction.
type TxRepository interface {
	GetSaleForUpdate(ctx context.Context, saleID int64) (SaleBalance, error)
	InsertPayment(ctx context.Context, payment Payment) (Payment, error)
	ApplyPayment(ctx context.Context, saleID int64, amount float64) (SaleBalance, error)
}

// RepositoryPort is the persistence surface the receivables ledger depends on.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	ListPayments(ctx context.Context, saleID int64) ([]Payment, error)
	CustomerSales(ctx context.Context, customerID int64) ([]SaleBalance, error)
	AllCustomerSales(ctx context.Context) ([]CustomerSale, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a RepositoryPort backed by the pool.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx})
	})
}

func (r *repository) ListPayments(ctx context.Context, saleID int64) ([]Payment, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id=$1)`, saleID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSaleNotFound
	}

	rows, err := r.pool.Query(ctx, `SELECT id, sale_id, amount, method, note, created_at FROM payments WHERE sale_id=$1 ORDER BY created_at ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Amount, &p.Method, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

const balanceColumns = `id, folio, customer_id, payment_method, total, paid_amount, credit_due_date, created_at`

func (r *repository) CustomerSales(ctx context.Context, customerID int64) ([]SaleBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+balanceColumns+` FROM sales WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []SaleBalance{}
	for rows.Next() {
		var s SaleBalance
		if err := scanBalance(rows, &s); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) AllCustomerSales(ctx context.Context) ([]CustomerSale, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id, s.folio, s.customer_id, s.payment_method, s.total, s.paid_amount, s.credit_due_date, s.created_at, c.name
FROM sales s JOIN customers c ON c.id = s.customer_id
WHERE s.paid_amount < s.total OR s.payment_method = 'credit'
ORDER BY s.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []CustomerSale{}
	for rows.Next() {
		var cs CustomerSale
		var method string
		if err := rows.Scan(&cs.Balance.ID, &cs.Balance.Folio, &cs.Balance.CustomerID, &method, &cs.Balance.Total, &cs.Balance.PaidAmount, &cs.Balance.CreditDueDate, &cs.Balance.CreatedAt, &cs.CustomerName); err != nil {
			return nil, err
		}
		cs.Balance.PaymentMethod = method
		sales = append(sales, cs)
	}
	return sales, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetSaleForUpdate(ctx context.Context, saleID int64) (SaleBalance, error) {
	var s SaleBalance
	err := scanBalance(r.tx.QueryRow(ctx, `SELECT `+balanceColumns+` FROM sales WHERE id=$1 FOR UPDATE`, saleID), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return SaleBalance{}, ErrSaleNotFound
	}
	return s, err
}

func (r *txRepository) InsertPayment(ctx context.Context, payment Payment) (Payment, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO payments (sale_id, amount, method, note, created_at)
VALUES ($1,$2,$3,$4,NOW()) RETURNING id, created_at`,
		payment.SaleID, payment.Amount, payment.Method, payment.Note).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23514" {
			return Payment{}, ErrInvalidAmount
		}
		return Payment{}, err
	}
	return payment, nil
}

// ApplyPayment advances paid_amount behind a guard that keeps it within the
// sale total. Zero affected rows means the balance moved under us.
func (r *txRepository) ApplyPayment(ctx context.Context, saleID int64, amount float64) (SaleBalance, error) {
	var s SaleBalance
	err := scanBalance(r.tx.QueryRow(ctx, `UPDATE sales SET paid_amount = paid_amount + $2
WHERE id = $1 AND paid_amount + $2 <= total
RETURNING `+balanceColumns, saleID, amount), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return SaleBalance{}, ErrOverPayment
	}
	return s, err
}

func scanBalance(row interface{ Scan(dest ...any) error }, s *SaleBalance) error {
	return row.Scan(&s.ID, &s.Folio, &s.CustomerID, &s.PaymentMethod, &s.Total, &s.PaidAmount, &s.CreditDueDate, &s.CreatedAt)
}
