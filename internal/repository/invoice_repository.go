package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/pkg/database"
)

// InvoiceRepository provides data access for invoices using pgx.
type InvoiceRepository struct {
	pool database.TxQuerier
}

// NewInvoiceRepository creates a new InvoiceRepository with the given pool.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// NewInvoiceRepositoryWithPool creates an InvoiceRepository with a custom
// querier. Primarily used for testing.
func NewInvoiceRepositoryWithPool(pool database.TxQuerier) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Insert inserts a new invoice within a transaction.
func (r *InvoiceRepository) Insert(ctx context.Context, tx database.TxQuerier, inv *model.Invoice) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO invoices (id, merchant_id, customer_id, coupon_id, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		inv.ID, inv.MerchantID, inv.CustomerID, inv.CouponID, inv.Status)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// ListByMerchant retrieves a merchant's invoices, optionally filtered by
// status. An empty status returns everything.
func (r *InvoiceRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, status string) ([]model.Invoice, error) {
	query := `SELECT id, merchant_id, customer_id, coupon_id, status, created_at, updated_at
		FROM invoices WHERE merchant_id = $1 ORDER BY created_at`
	args := []any{merchantID}
	if status != "" {
		query = `SELECT id, merchant_id, customer_id, coupon_id, status, created_at, updated_at
		FROM invoices WHERE merchant_id = $1 AND status = $2 ORDER BY created_at`
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices for merchant %s: %w", merchantID, err)
	}
	defer rows.Close()

	return scanInvoices(rows)
}

// ListByCoupon retrieves every invoice referencing a coupon. Called inside
// the deactivation transaction so the pending-invoice check sees a
// consistent snapshot.
func (r *InvoiceRepository) ListByCoupon(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) ([]model.Invoice, error) {
	query := `SELECT id, merchant_id, customer_id, coupon_id, status, created_at, updated_at
		FROM invoices WHERE coupon_id = $1`

	rows, err := tx.Query(ctx, query, couponID)
	if err != nil {
		return nil, fmt.Errorf("list invoices for coupon %s: %w", couponID, err)
	}
	defer rows.Close()

	return scanInvoices(rows)
}

// CountWithCoupon counts a merchant's invoices that carry a coupon reference.
func (r *InvoiceRepository) CountWithCoupon(ctx context.Context, merchantID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE merchant_id = $1 AND coupon_id IS NOT NULL`,
		merchantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count invoices with coupon for merchant %s: %w", merchantID, err)
	}
	return count, nil
}

// DistinctCustomers retrieves the distinct customers a merchant has invoiced.
func (r *InvoiceRepository) DistinctCustomers(ctx context.Context, merchantID uuid.UUID) ([]model.Customer, error) {
	query := `SELECT DISTINCT c.id, c.first_name, c.last_name, c.created_at
		FROM customers c
		JOIN invoices i ON i.customer_id = c.id
		WHERE i.merchant_id = $1`

	rows, err := r.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list customers for merchant %s: %w", merchantID, err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}

func scanInvoices(rows pgx.Rows) ([]model.Invoice, error) {
	invoices := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.MerchantID, &inv.CustomerID, &inv.CouponID,
			&inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return invoices, nil
}
