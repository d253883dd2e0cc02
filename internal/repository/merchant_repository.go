package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/internal/service"
	"github.com/littleshop/catalog-api/pkg/database"
)

// MerchantRepository provides data access for merchants using pgx.
type MerchantRepository struct {
	pool database.TxQuerier
}

// NewMerchantRepository creates a new MerchantRepository with the given pool.
func NewMerchantRepository(pool *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

// NewMerchantRepositoryWithPool creates a MerchantRepository with a custom
// querier. Primarily used for testing.
func NewMerchantRepositoryWithPool(pool database.TxQuerier) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

// Insert inserts a new merchant.
func (r *MerchantRepository) Insert(ctx context.Context, m *model.Merchant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO merchants (id, name) VALUES ($1, $2)`,
		m.ID, m.Name)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID retrieves a merchant by id.
// Returns nil, nil if the merchant is not found (service layer handles this).
func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Merchant, error) {
	query := `SELECT id, name, created_at, updated_at FROM merchants WHERE id = $1`

	var m model.Merchant
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get merchant %s: %w", id, err)
	}
	return &m, nil
}

// GetForUpdate retrieves a merchant with a row lock (SELECT FOR UPDATE).
// Every coupon-set mutation for a merchant takes this lock first, which is
// what serializes the active-cap check against concurrent writers.
// Returns service.ErrMerchantNotFound if the merchant doesn't exist.
func (r *MerchantRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Merchant, error) {
	query := `SELECT id, name, created_at, updated_at FROM merchants WHERE id = $1 FOR UPDATE`

	var m model.Merchant
	err := tx.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrMerchantNotFound
		}
		return nil, fmt.Errorf("get merchant for update %s: %w", id, err)
	}
	return &m, nil
}

// List retrieves all merchants, newest first.
func (r *MerchantRepository) List(ctx context.Context) ([]model.Merchant, error) {
	query := `SELECT id, name, created_at, updated_at FROM merchants ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()

	return scanMerchants(rows)
}

// ListByInvoiceStatus retrieves the distinct merchants that own at least one
// invoice with the given status.
func (r *MerchantRepository) ListByInvoiceStatus(ctx context.Context, status string) ([]model.Merchant, error) {
	query := `SELECT DISTINCT m.id, m.name, m.created_at, m.updated_at
		FROM merchants m
		JOIN invoices i ON i.merchant_id = m.id
		WHERE i.status = $1`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list merchants by invoice status %s: %w", status, err)
	}
	defer rows.Close()

	return scanMerchants(rows)
}

// Update renames a merchant.
// Returns service.ErrMerchantNotFound if no row was affected.
func (r *MerchantRepository) Update(ctx context.Context, m *model.Merchant) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE merchants SET name = $2, updated_at = now() WHERE id = $1`,
		m.ID, m.Name)
	if err != nil {
		return fmt.Errorf("update merchant %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrMerchantNotFound
	}
	return nil
}

// Delete removes a merchant. Items, invoices, and coupons go with it via
// the schema's ON DELETE CASCADE chain.
// Returns service.ErrMerchantNotFound if no row was affected.
func (r *MerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM merchants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete merchant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrMerchantNotFound
	}
	return nil
}

func scanMerchants(rows pgx.Rows) ([]model.Merchant, error) {
	merchants := []model.Merchant{}
	for rows.Next() {
		var m model.Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merchant rows: %w", err)
	}
	return merchants, nil
}
