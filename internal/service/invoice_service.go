package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/pkg/database"
)

// InvoiceRepositoryInterface defines the interface for invoice data access.
type InvoiceRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, inv *model.Invoice) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, status string) ([]model.Invoice, error)
	ListByCoupon(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) ([]model.Invoice, error)
	CountWithCoupon(ctx context.Context, merchantID uuid.UUID) (int, error)
	DistinctCustomers(ctx context.Context, merchantID uuid.UUID) ([]model.Customer, error)
}

// CustomerRepositoryInterface defines the interface for customer lookups.
type CustomerRepositoryInterface interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// InvoiceService binds invoices to coupons. The active-coupon check, the
// invoice insert, and the usage increment run in one transaction, so a
// committed invoice always implies a counted usage.
type InvoiceService struct {
	pool         TxBeginner
	invoiceRepo  InvoiceRepositoryInterface
	couponRepo   CouponRepositoryInterface
	merchantRepo MerchantLockerInterface
	customerRepo CustomerRepositoryInterface
}

// NewInvoiceService creates a new InvoiceService with the given pool and repositories.
func NewInvoiceService(pool *pgxpool.Pool, invoiceRepo InvoiceRepositoryInterface, couponRepo CouponRepositoryInterface, merchantRepo MerchantLockerInterface, customerRepo CustomerRepositoryInterface) *InvoiceService {
	return &InvoiceService{
		pool:         pool,
		invoiceRepo:  invoiceRepo,
		couponRepo:   couponRepo,
		merchantRepo: merchantRepo,
		customerRepo: customerRepo,
	}
}

// NewInvoiceServiceWithTxBeginner creates an InvoiceService with a custom
// TxBeginner. Primarily used for testing.
func NewInvoiceServiceWithTxBeginner(pool TxBeginner, invoiceRepo InvoiceRepositoryInterface, couponRepo CouponRepositoryInterface, merchantRepo MerchantLockerInterface, customerRepo CustomerRepositoryInterface) *InvoiceService {
	return &InvoiceService{
		pool:         pool,
		invoiceRepo:  invoiceRepo,
		couponRepo:   couponRepo,
		merchantRepo: merchantRepo,
		customerRepo: customerRepo,
	}
}

// Create validates and persists a new invoice for a merchant. When a coupon
// is referenced, the coupon row is locked, its active flag checked, and its
// usage count incremented in the same transaction as the invoice insert.
// Returns:
//   - ErrMerchantNotFound / ErrCustomerNotFound / ErrCouponNotFound for
//     missing references
//   - *ValidationError ("Coupon is not active and cannot be applied") when
//     the referenced coupon is inactive; no invoice row is committed
func (s *InvoiceService) Create(ctx context.Context, merchantID uuid.UUID, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}

	exists, err := s.customerRepo.Exists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	inv := &model.Invoice{
		ID:         uuid.New(),
		MerchantID: merchantID,
		CustomerID: req.CustomerID,
		CouponID:   req.CouponID,
		Status:     req.Status,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if req.CouponID != nil {
		// Lock the coupon row so a concurrent deactivation cannot slip
		// between the active check and the commit
		coupon, err := s.couponRepo.GetForUpdate(ctx, tx, merchantID, *req.CouponID)
		if err != nil {
			return nil, err
		}
		if v := attachViolations(coupon); len(v) > 0 {
			return nil, &ValidationError{Violations: v}
		}
	}

	if err := s.invoiceRepo.Insert(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	if req.CouponID != nil {
		// Same transaction as the insert: a failure here rolls the invoice
		// back too, so the usage count can never lag a committed invoice
		if err := s.couponRepo.IncrementUsage(ctx, tx, *req.CouponID); err != nil {
			return nil, fmt.Errorf("increment usage: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return inv, nil
}

// ListByMerchant retrieves a merchant's invoices, optionally filtered by
// status. Returns ErrMerchantNotFound if the merchant doesn't exist.
func (s *InvoiceService) ListByMerchant(ctx context.Context, merchantID uuid.UUID, status string) ([]model.Invoice, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	return s.invoiceRepo.ListByMerchant(ctx, merchantID, status)
}
