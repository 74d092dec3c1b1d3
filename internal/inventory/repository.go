package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/db"
)

// TxRepository exposes the writes available inside an inventory transaction.
type TxRepository interface {
	InsertLot(ctx context.Context, lot Lot) (Lot, error)
	AdjustStock(ctx context.Context, productID int64, delta float64) (float64, error)
}

// RepositoryPort is the persistence surface the inventory service depends on.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	AdjustStock(ctx context.Context, productID int64, delta float64) (float64, error)
	ListLots(ctx context.Context, filters LotFilters) ([]Lot, error)
}

type repository struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

// NewRepository constructs a RepositoryPort backed by the pool.
func NewRepository(pool *pgxpool.Pool, ledger *Ledger) RepositoryPort {
	return &repository{pool: pool, ledger: ledger}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx, ledger: r.ledger})
	})
}

func (r *repository) AdjustStock(ctx context.Context, productID int64, delta float64) (float64, error) {
	return r.ledger.Adjust(ctx, r.pool, productID, delta)
}

func (r *repository) ListLots(ctx context.Context, filters LotFilters) ([]Lot, error) {
	query := `SELECT id, product_id, quantity, cost, lot_code, arrival_date, expiration_date, created_at FROM inventory_lots`
	args := []interface{}{}
	if filters.ProductID > 0 {
		args = append(args, filters.ProductID)
		query += ` WHERE product_id=$` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY arrival_date DESC`
	limit := filters.Limit
	if limit <= 0 {
		limit = 100
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

	lots := []Lot{}
	for rows.Next() {
		var lot Lot
		if err := rows.Scan(&lot.ID, &lot.ProductID, &lot.Quantity, &lot.Cost, &lot.LotCode, &lot.ArrivalDate, &lot.ExpirationDate, &lot.CreatedAt); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

type txRepository struct {
	tx     pgx.Tx
	ledger *Ledger
}

func (r *txRepository) InsertLot(ctx context.Context, lot Lot) (Lot, error) {
	arrival := lot.ArrivalDate
	if arrival.IsZero() {
		arrival = time.Now()
	}
	err := r.tx.QueryRow(ctx, `INSERT INTO inventory_lots (product_id, quantity, cost, lot_code, arrival_date, expiration_date, created_at)
VALUES ($1,$2,$3,$4,$5,$6,NOW()) RETURNING id, arrival_date, created_at`,
		lot.ProductID, lot.Quantity, lot.Cost, lot.LotCode, arrival, lot.ExpirationDate).
		Scan(&lot.ID, &lot.ArrivalDate, &lot.CreatedAt)
	if err != nil {
		return Lot{}, err
	}
	return lot, nil
}

func (r *txRepository) AdjustStock(ctx context.Context, productID int64, delta float64) (float64, error) {
	return r.ledger.Adjust(ctx, r.tx, productID, delta)
}
