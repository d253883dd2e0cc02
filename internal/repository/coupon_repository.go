package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/internal/service"
	"github.com/littleshop/catalog-api/pkg/database"
)

const couponColumns = `id, merchant_id, name, code, discount_value, discount_type, active, usage_count, created_at, updated_at`

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool database.TxQuerier
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a CouponRepository with a custom
// querier. Primarily used for testing.
func NewCouponRepositoryWithPool(pool database.TxQuerier) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new coupon within a transaction.
// Returns service.ErrCodeTaken if the case-insensitive unique index on code
// rejects the row (the race the pre-check cannot see).
func (r *CouponRepository) Insert(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO coupons (id, merchant_id, name, code, discount_value, discount_type, active, usage_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.MerchantID, c.Name, c.Code, c.DiscountValue, c.DiscountType, c.Active, c.UsageCount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCodeTaken
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByID retrieves a merchant's coupon by id.
// Returns nil, nil if the coupon is not found or belongs to another merchant.
func (r *CouponRepository) GetByID(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 AND merchant_id = $2`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, couponID, merchantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon %s: %w", couponID, err)
	}
	return c, nil
}

// GetForUpdate retrieves a coupon with a row lock (SELECT FOR UPDATE).
// This locks the row until the transaction completes.
// Returns service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, merchantID, couponID uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 AND merchant_id = $2 FOR UPDATE`

	c, err := scanCoupon(tx.QueryRow(ctx, query, couponID, merchantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update %s: %w", couponID, err)
	}
	return c, nil
}

// ListByMerchant retrieves a merchant's coupons, optionally filtered by the
// active flag. A nil filter returns everything.
func (r *CouponRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, active *bool) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE merchant_id = $1 ORDER BY created_at`
	args := []any{merchantID}
	if active != nil {
		query = `SELECT ` + couponColumns + ` FROM coupons WHERE merchant_id = $1 AND active = $2 ORDER BY created_at`
		args = append(args, *active)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list coupons for merchant %s: %w", merchantID, err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.MerchantID, &c.Name, &c.Code, &c.DiscountValue,
			&c.DiscountType, &c.Active, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// CountActive counts a merchant's active coupons. Called inside the same
// transaction that holds the merchant row lock so the cap check and the
// subsequent write are one atomic unit.
func (r *CouponRepository) CountActive(ctx context.Context, tx database.TxQuerier, merchantID uuid.UUID) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT count(*) FROM coupons WHERE merchant_id = $1 AND active = TRUE`,
		merchantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active coupons for merchant %s: %w", merchantID, err)
	}
	return count, nil
}

// CountByMerchant counts all of a merchant's coupons regardless of state.
func (r *CouponRepository) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM coupons WHERE merchant_id = $1`,
		merchantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count coupons for merchant %s: %w", merchantID, err)
	}
	return count, nil
}

// CodeInUse reports whether any coupon other than excludeID already uses the
// code, compared case-insensitively across all merchants. Pass uuid.Nil for
// creates.
func (r *CouponRepository) CodeInUse(ctx context.Context, tx database.TxQuerier, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupons WHERE lower(code) = lower($1) AND id <> $2)`,
		code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check coupon code %s: %w", code, err)
	}
	return exists, nil
}

// Update persists a coupon's editable fields within a transaction.
// Returns service.ErrCodeTaken on a code uniqueness violation.
func (r *CouponRepository) Update(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error {
	_, err := tx.Exec(ctx,
		`UPDATE coupons SET name = $2, code = $3, discount_value = $4, discount_type = $5, updated_at = now()
		 WHERE id = $1`,
		c.ID, c.Name, c.Code, c.DiscountValue, c.DiscountType)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCodeTaken
		}
		return fmt.Errorf("update coupon %s: %w", c.ID, err)
	}
	return nil
}

// SetActive flips the active flag within a transaction. Must be called after
// locking the row and re-validating the transition.
func (r *CouponRepository) SetActive(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID, active bool) error {
	_, err := tx.Exec(ctx,
		`UPDATE coupons SET active = $2, updated_at = now() WHERE id = $1`,
		couponID, active)
	if err != nil {
		return fmt.Errorf("set coupon %s active=%t: %w", couponID, active, err)
	}
	return nil
}

// IncrementUsage bumps usage_count by one as a single atomic statement, so
// concurrent invoice creations for the same coupon cannot lose updates.
// Returns service.ErrCouponNotFound if the coupon no longer exists.
func (r *CouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons SET usage_count = usage_count + 1, updated_at = now() WHERE id = $1`,
		couponID)
	if err != nil {
		return fmt.Errorf("increment usage for coupon %s: %w", couponID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.MerchantID, &c.Name, &c.Code, &c.DiscountValue,
		&c.DiscountType, &c.Active, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
