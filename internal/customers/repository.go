package customers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `id, name, phone, email, customer_type, credit_days, credit_limit, notes, created_at, updated_at`

// Repository persists customers in PostgreSQL.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Customer, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, customer Customer) (Customer, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Customer{}
	for rows.Next() {
		var c Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	var c Customer
	err := scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, customer Customer) (Customer, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO customers (name, phone, email, customer_type, credit_days, credit_limit, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW()) RETURNING id, created_at, updated_at`,
		customer.Name, customer.Phone, customer.Email, string(customer.CustomerType), customer.CreditDays, customer.CreditLimit, customer.Notes).
		Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return Customer{}, err
	}
	return customer, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	query := `UPDATE customers SET updated_at=NOW()`
	args := []interface{}{}
	argCount := 0
	for column, value := range updates {
		argCount++
		query += `, ` + column + `=$` + strconv.Itoa(argCount)
		args = append(args, value)
	}
	argCount++
	query += ` WHERE id=$` + strconv.Itoa(argCount)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner, c *Customer) error {
	var kind string
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &kind, &c.CreditDays, &c.CreditLimit, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	c.CustomerType = CreditTerms(kind)
	return nil
}
