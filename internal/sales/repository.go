package sales

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/catalog"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/inventory"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/db"
)

// TxRepository exposes the writes available inside the sale transaction.
type TxRepository interface {
	ReserveStock(ctx context.Context, productID int64, quantity float64) error
	InsertSale(ctx context.Context, sale Sale) (Sale, error)
	InsertSaleLines(ctx context.Context, saleID int64, lines []SaleLine) ([]SaleLine, error)
}

// RepositoryPort is the persistence surface the sale transaction manager
// depends on.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	GetProducts(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
	GetSale(ctx context.Context, id int64) (Sale, error)
	ListSales(ctx context.Context, filters ListFilters) ([]Sale, error)
}

type repository struct {
	pool    *pgxpool.Pool
	catalog catalog.Repository
	ledger  *inventory.Ledger
}

// NewRepository constructs a RepositoryPort backed by the pool.
func NewRepository(pool *pgxpool.Pool, catalogRepo catalog.Repository, ledger *inventory.Ledger) RepositoryPort {
	return &repository{pool: pool, catalog: catalogRepo, ledger: ledger}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx, ledger: r.ledger})
	})
}

func (r *repository) GetProducts(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	return r.catalog.GetByIDs(ctx, ids)
}

const saleColumns = `id, folio, customer_id, payment_method, total, paid_amount, credit_due_date, notes, created_at`

func (r *repository) GetSale(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id=$1`, id), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, ErrNotFound
	}
	if err != nil {
		return Sale{}, err
	}

	lines, err := r.loadLines(ctx, []int64{id})
	if err != nil {
		return Sale{}, err
	}
	s.Lines = lines[id]
	return s, nil
}

func (r *repository) ListSales(ctx context.Context, filters ListFilters) ([]Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	args := []interface{}{}
	if filters.CustomerID > 0 {
		args = append(args, filters.CustomerID)
		query += ` WHERE customer_id=$` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filters.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Sale{}
	ids := []int64{}
	for rows.Next() {
		var s Sale
		if err := scanSale(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Lines = lines[result[i].ID]
	}
	return result, nil
}

func (r *repository) loadLines(ctx context.Context, saleIDs []int64) (map[int64][]SaleLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT l.id, l.sale_id, l.product_id, p.name, p.sku, l.quantity, l.unit_price, l.discount, l.line_total
FROM sale_lines l JOIN products p ON p.id = l.product_id
WHERE l.sale_id = ANY($1) ORDER BY l.id ASC`, saleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := map[int64][]SaleLine{}
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName, &l.ProductSKU, &l.Quantity, &l.UnitPrice, &l.Discount, &l.LineTotal); err != nil {
			return nil, err
		}
		lines[l.SaleID] = append(lines[l.SaleID], l)
	}
	return lines, rows.Err()
}

type txRepository struct {
	tx     pgx.Tx
	ledger *inventory.Ledger
}

func (r *txRepository) ReserveStock(ctx context.Context, productID int64, quantity float64) error {
	_, err := r.ledger.Adjust(ctx, r.tx, productID, -quantity)
	return err
}

func (r *txRepository) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO sales (folio, customer_id, payment_method, total, paid_amount, credit_due_date, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW()) RETURNING id, created_at`,
		sale.Folio, sale.CustomerID, string(sale.PaymentMethod), sale.Total, sale.PaidAmount, sale.CreditDueDate, sale.Notes).
		Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (r *txRepository) InsertSaleLines(ctx context.Context, saleID int64, lines []SaleLine) ([]SaleLine, error) {
	for i := range lines {
		lines[i].SaleID = saleID
		err := r.tx.QueryRow(ctx, `INSERT INTO sale_lines (sale_id, product_id, quantity, unit_price, discount, line_total)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			saleID, lines[i].ProductID, lines[i].Quantity, lines[i].UnitPrice, lines[i].Discount, lines[i].LineTotal).
			Scan(&lines[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func scanSale(row interface{ Scan(dest ...any) error }, s *Sale) error {
	var method string
	if err := row.Scan(&s.ID, &s.Folio, &s.CustomerID, &method, &s.Total, &s.PaidAmount, &s.CreditDueDate, &s.Notes, &s.CreatedAt); err != nil {
		return err
	}
	s.PaymentMethod = PaymentMethod(method)
	return nil
}
