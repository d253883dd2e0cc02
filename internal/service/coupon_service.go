package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error
	GetByID(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, merchantID, couponID uuid.UUID) (*model.Coupon, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, active *bool) ([]model.Coupon, error)
	CountActive(ctx context.Context, tx database.TxQuerier, merchantID uuid.UUID) (int, error)
	CodeInUse(ctx context.Context, tx database.TxQuerier, code string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error
	SetActive(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID, active bool) error
	IncrementUsage(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) error
}

// MerchantLockerInterface is the slice of merchant data access the coupon
// lifecycle needs: the row lock that serializes per-merchant mutations.
type MerchantLockerInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Merchant, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Merchant, error)
}

// CouponInvoicesInterface is the slice of invoice data access the
// deactivation guard needs.
type CouponInvoicesInterface interface {
	ListByCoupon(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) ([]model.Invoice, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CouponService orchestrates coupon state transitions. Every mutation runs
// inside one transaction that locks the merchant row before re-reading the
// active count, which closes the check-then-act race on the 5-active cap
// (and on code uniqueness, backstopped by the schema's unique index).
type CouponService struct {
	pool         TxBeginner
	couponRepo   CouponRepositoryInterface
	merchantRepo MerchantLockerInterface
	invoiceRepo  CouponInvoicesInterface
}

// NewCouponService creates a new CouponService with the given pool and repositories.
func NewCouponService(pool *pgxpool.Pool, couponRepo CouponRepositoryInterface, merchantRepo MerchantLockerInterface, invoiceRepo CouponInvoicesInterface) *CouponService {
	return &CouponService{
		pool:         pool,
		couponRepo:   couponRepo,
		merchantRepo: merchantRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// NewCouponServiceWithTxBeginner creates a CouponService with a custom TxBeginner.
// Primarily used for testing.
func NewCouponServiceWithTxBeginner(pool TxBeginner, couponRepo CouponRepositoryInterface, merchantRepo MerchantLockerInterface, invoiceRepo CouponInvoicesInterface) *CouponService {
	return &CouponService{
		pool:         pool,
		couponRepo:   couponRepo,
		merchantRepo: merchantRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Create validates and persists a new coupon for a merchant.
// Returns:
//   - ErrMerchantNotFound if the merchant doesn't exist
//   - *ValidationError with the violation list if any rule rejects; nothing
//     is committed in that case
func (s *CouponService) Create(ctx context.Context, merchantID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil || req.DiscountValue == nil {
		return nil, &ValidationError{Violations: []string{ViolationDiscountValue}}
	}

	candidate := &model.Coupon{
		ID:            uuid.New(),
		MerchantID:    merchantID,
		Name:          req.Name,
		Code:          req.Code,
		DiscountValue: *req.DiscountValue,
		DiscountType:  req.DiscountType,
		Active:        true,
		UsageCount:    0,
	}
	if req.Active != nil {
		candidate.Active = *req.Active
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the merchant row; serializes all coupon-set mutations
	if _, err := s.merchantRepo.GetForUpdate(ctx, tx, merchantID); err != nil {
		return nil, err
	}

	// 2. Re-read state under the lock
	codeTaken, err := s.couponRepo.CodeInUse(ctx, tx, req.Code, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	activeSiblings, err := s.couponRepo.CountActive(ctx, tx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("count active coupons: %w", err)
	}

	// 3. Evaluate rules, commit nothing on violation
	if v := createViolations(candidate, activeSiblings, codeTaken); len(v) > 0 {
		return nil, &ValidationError{Violations: v}
	}

	// 4. Persist; the unique index catches code races the pre-check missed
	if err := s.couponRepo.Insert(ctx, tx, candidate); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return nil, &ValidationError{Violations: []string{ViolationCodeTaken}}
		}
		return nil, fmt.Errorf("insert coupon: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return candidate, nil
}

// UpdateFields applies a non-active field edit. The active flag is ignored
// here; activation and deactivation go through ToggleActive. The cap check
// is not re-run for field edits on an already-active coupon.
// Returns ErrMerchantNotFound, ErrCouponNotFound, or *ValidationError.
func (s *CouponService) UpdateFields(ctx context.Context, merchantID, couponID uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.merchantRepo.GetForUpdate(ctx, tx, merchantID); err != nil {
		return nil, err
	}

	coupon, err := s.couponRepo.GetForUpdate(ctx, tx, merchantID, couponID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		coupon.Name = *req.Name
	}
	if req.Code != nil {
		coupon.Code = *req.Code
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
	}

	// Code uniqueness excludes the coupon itself
	codeTaken, err := s.couponRepo.CodeInUse(ctx, tx, coupon.Code, coupon.ID)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if v := updateViolations(coupon, codeTaken); len(v) > 0 {
		return nil, &ValidationError{Violations: v}
	}

	if err := s.couponRepo.Update(ctx, tx, coupon); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return nil, &ValidationError{Violations: []string{ViolationCodeTaken}}
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return coupon, nil
}

// ToggleActive flips a coupon's active flag. Activation re-validates the
// 5-active cap; deactivation is blocked while any "packaged" invoice
// references the coupon. On violation the coupon is left unchanged.
// Returns ErrMerchantNotFound, ErrCouponNotFound, or *ValidationError.
func (s *CouponService) ToggleActive(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Merchant lock first, then the coupon row: same order as Create, so
	// cap checks never interleave
	if _, err := s.merchantRepo.GetForUpdate(ctx, tx, merchantID); err != nil {
		return nil, err
	}
	coupon, err := s.couponRepo.GetForUpdate(ctx, tx, merchantID, couponID)
	if err != nil {
		return nil, err
	}

	newActive := !coupon.Active
	if newActive {
		activeSiblings, err := s.couponRepo.CountActive(ctx, tx, merchantID)
		if err != nil {
			return nil, fmt.Errorf("count active coupons: %w", err)
		}
		if v := activationViolations(activeSiblings); len(v) > 0 {
			return nil, &ValidationError{Violations: v}
		}
	} else {
		invoices, err := s.invoiceRepo.ListByCoupon(ctx, tx, couponID)
		if err != nil {
			return nil, fmt.Errorf("list invoices for coupon: %w", err)
		}
		if v := deactivationViolations(invoices); len(v) > 0 {
			return nil, &ValidationError{Violations: v}
		}
	}

	if err := s.couponRepo.SetActive(ctx, tx, couponID, newActive); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	coupon.Active = newActive
	return coupon, nil
}

// Get retrieves a merchant's coupon.
// Returns ErrCouponNotFound if absent or owned by another merchant.
func (s *CouponService) Get(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, merchantID, couponID)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List retrieves a merchant's coupons. statusFilter "active" / "inactive"
// narrows the set; any other value (including empty) returns everything.
// Returns ErrMerchantNotFound if the merchant doesn't exist.
func (s *CouponService) List(ctx context.Context, merchantID uuid.UUID, statusFilter string) ([]model.Coupon, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}

	var active *bool
	switch statusFilter {
	case "active":
		t := true
		active = &t
	case "inactive":
		f := false
		active = &f
	}
	return s.couponRepo.ListByMerchant(ctx, merchantID, active)
}
