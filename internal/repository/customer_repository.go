package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/pkg/database"
)

// CustomerRepository provides read-only access to customers. Customer
// management lives elsewhere; this service only needs existence checks.
type CustomerRepository struct {
	pool database.TxQuerier
}

// NewCustomerRepository creates a new CustomerRepository with the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// NewCustomerRepositoryWithPool creates a CustomerRepository with a custom
// querier. Primarily used for testing.
func NewCustomerRepositoryWithPool(pool database.TxQuerier) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Exists reports whether a customer id is present.
func (r *CustomerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer %s: %w", id, err)
	}
	return exists, nil
}
