package inventory

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/catalog"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx, letting the ledger run
// inside a caller's transaction or directly against the pool.
type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// NormalizeDelta rounds the movement for piece goods so count-based stock
// never drifts into fractions. Weighed goods keep full precision.
func NormalizeDelta(kind catalog.UnitKind, delta float64) float64 {
	if kind == catalog.UnitCount {
		return math.Round(delta)
	}
	return delta
}

// Ledger applies stock movements through a single guarded update. The guard
// keeps on-hand non-negative without a prior read, so concurrent sales race
// safely on the same row.
type Ledger struct{}

// NewLedger returns a Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Adjust moves a product's on-hand by delta. A movement that would leave
// negative stock affects zero rows and surfaces as a StockError.
func (l *Ledger) Adjust(ctx context.Context, q dbtx, productID int64, delta float64) (float64, error) {
	var name string
	var kind string
	err := q.QueryRow(ctx, `SELECT name, unit_kind FROM products WHERE id=$1`, productID).Scan(&name, &kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUnknownProduct
	}
	if err != nil {
		return 0, err
	}

	applied := NormalizeDelta(catalog.UnitKind(kind), delta)

	var onHand float64
	err = q.QueryRow(ctx, `UPDATE products SET on_hand = on_hand + $2, updated_at = NOW()
WHERE id = $1 AND on_hand + $2 >= 0 RETURNING on_hand`, productID, applied).Scan(&onHand)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &StockError{ProductID: productID, Product: name}
	}
	if err != nil {
		return 0, err
	}
	return onHand, nil
}
