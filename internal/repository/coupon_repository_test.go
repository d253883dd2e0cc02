package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/internal/service"
)

// mockRow implements pgx.Row for testing scans.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFn != nil {
		return m.scanFn(dest...)
	}
	return nil
}

// mockQuerier implements database.TxQuerier for testing. It stands in for
// both the pool and a transaction.
type mockQuerier struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return nil, nil
}

func scanCouponInto(dest []any, c model.Coupon) {
	*(dest[0].(*uuid.UUID)) = c.ID
	*(dest[1].(*uuid.UUID)) = c.MerchantID
	*(dest[2].(*string)) = c.Name
	*(dest[3].(*string)) = c.Code
	*(dest[4].(*int)) = c.DiscountValue
	*(dest[5].(*string)) = c.DiscountType
	*(dest[6].(*bool)) = c.Active
	*(dest[7].(*int)) = c.UsageCount
	*(dest[8].(*time.Time)) = c.CreatedAt
	*(dest[9].(*time.Time)) = c.UpdatedAt
}

func TestCouponRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any

	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	coupon := &model.Coupon{
		ID:            uuid.New(),
		MerchantID:    uuid.New(),
		Name:          "Spring Sale",
		Code:          "SAVE10",
		DiscountValue: 10,
		DiscountType:  model.DiscountTypePercent,
		Active:        true,
	}

	err := repo.Insert(context.Background(), mockTx, coupon)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO coupons")
	assert.Contains(t, capturedSQL, "$1, $2, $3")
	assert.Equal(t, coupon.ID, capturedArgs[0])
	assert.Equal(t, "SAVE10", capturedArgs[3])
}

func TestCouponRepository_Insert_DuplicateCode(t *testing.T) {
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			// Simulate PostgreSQL unique violation error (code 23505)
			pgErr := &pgconn.PgError{
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
			}
			return pgconn.CommandTag{}, pgErr
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	err := repo.Insert(context.Background(), mockTx, &model.Coupon{Code: "SAVE10"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCodeTaken), "should return ErrCodeTaken for duplicate")
}

func TestCouponRepository_Insert_OtherPgError(t *testing.T) {
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			pgErr := &pgconn.PgError{
				Code:    "23502", // not_null_violation
				Message: "null value in column violates not-null constraint",
			}
			return pgconn.CommandTag{}, pgErr
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	err := repo.Insert(context.Background(), mockTx, &model.Coupon{Code: "SAVE10"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrCodeTaken), "should not return ErrCodeTaken for non-23505 error")
	assert.Contains(t, err.Error(), "insert coupon")
}

func TestCouponRepository_GetByID_NotFound(t *testing.T) {
	mock := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{
				scanFn: func(dest ...any) error {
					return pgx.ErrNoRows
				},
			}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon, err := repo.GetByID(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, coupon, "Should return nil for not found")
}

func TestCouponRepository_GetByID_ScopedToMerchant(t *testing.T) {
	merchantID := uuid.New()
	couponID := uuid.New()
	var capturedSQL string
	var capturedArgs []any
	mock := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			capturedArgs = args
			return &mockRow{
				scanFn: func(dest ...any) error {
					scanCouponInto(dest, model.Coupon{ID: couponID, MerchantID: merchantID, Code: "SAVE10"})
					return nil
				},
			}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon, err := repo.GetByID(context.Background(), merchantID, couponID)

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Contains(t, capturedSQL, "merchant_id = $2")
	assert.Equal(t, couponID, capturedArgs[0])
	assert.Equal(t, merchantID, capturedArgs[1])
	assert.Equal(t, "SAVE10", coupon.Code)
}

func TestCouponRepository_GetForUpdate_Success(t *testing.T) {
	couponID := uuid.New()
	mockTx := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			// Verify FOR UPDATE is in query
			assert.Contains(t, sql, "FOR UPDATE", "Query must use FOR UPDATE for row locking")
			return &mockRow{
				scanFn: func(dest ...any) error {
					scanCouponInto(dest, model.Coupon{ID: couponID, Active: true, UsageCount: 3})
					return nil
				},
			}
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	coupon, err := repo.GetForUpdate(context.Background(), mockTx, uuid.New(), couponID)

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, couponID, coupon.ID)
	assert.Equal(t, 3, coupon.UsageCount)
}

func TestCouponRepository_GetForUpdate_NotFound(t *testing.T) {
	mockTx := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{
				scanFn: func(dest ...any) error {
					return pgx.ErrNoRows
				},
			}
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	coupon, err := repo.GetForUpdate(context.Background(), mockTx, uuid.New(), uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCouponNotFound), "should return ErrCouponNotFound")
	assert.Nil(t, coupon)
}

func TestCouponRepository_CountActive_QueriesActiveOnly(t *testing.T) {
	merchantID := uuid.New()
	var capturedSQL string
	mockTx := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			assert.Equal(t, merchantID, args[0])
			return &mockRow{
				scanFn: func(dest ...any) error {
					*(dest[0].(*int)) = 4
					return nil
				},
			}
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	count, err := repo.CountActive(context.Background(), mockTx, merchantID)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Contains(t, capturedSQL, "active = TRUE")
}

func TestCouponRepository_CodeInUse_CaseInsensitive(t *testing.T) {
	excludeID := uuid.New()
	var capturedSQL string
	var capturedArgs []any
	mockTx := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			capturedArgs = args
			return &mockRow{
				scanFn: func(dest ...any) error {
					*(dest[0].(*bool)) = true
					return nil
				},
			}
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	taken, err := repo.CodeInUse(context.Background(), mockTx, "Save10", excludeID)

	require.NoError(t, err)
	assert.True(t, taken)
	assert.Contains(t, capturedSQL, "lower(code) = lower($1)")
	assert.Contains(t, capturedSQL, "id <> $2")
	assert.Equal(t, "Save10", capturedArgs[0])
	assert.Equal(t, excludeID, capturedArgs[1])
}

func TestCouponRepository_Update_DuplicateCode(t *testing.T) {
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	err := repo.Update(context.Background(), mockTx, &model.Coupon{ID: uuid.New(), Code: "SAVE10"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCodeTaken))
}

func TestCouponRepository_IncrementUsage_AtomicStatement(t *testing.T) {
	couponID := uuid.New()
	var capturedSQL string
	var capturedArgs []any
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	err := repo.IncrementUsage(context.Background(), mockTx, couponID)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "usage_count = usage_count + 1")
	assert.Equal(t, couponID, capturedArgs[0])
}

func TestCouponRepository_IncrementUsage_CouponGone(t *testing.T) {
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	err := repo.IncrementUsage(context.Background(), mockTx, uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCouponNotFound))
}

func TestCouponRepository_IncrementUsage_DatabaseError(t *testing.T) {
	dbErr := errors.New("connection reset")
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	repo := NewCouponRepositoryWithPool(&mockQuerier{})
	err := repo.IncrementUsage(context.Background(), mockTx, uuid.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "increment usage")
	assert.True(t, errors.Is(err, dbErr), "should wrap original error")
}

func TestNewCouponRepository_Production(t *testing.T) {
	repo := NewCouponRepository(nil)
	require.NotNil(t, repo, "NewCouponRepository should return a non-nil repository")
}
