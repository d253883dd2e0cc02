package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/littleshop/catalog-api/internal/model"
)

// MerchantRepositoryInterface defines the interface for merchant data access.
type MerchantRepositoryInterface interface {
	Insert(ctx context.Context, m *model.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Merchant, error)
	List(ctx context.Context) ([]model.Merchant, error)
	ListByInvoiceStatus(ctx context.Context, status string) ([]model.Merchant, error)
	Update(ctx context.Context, m *model.Merchant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CouponCounterInterface is the slice of coupon data access the summary
// endpoint needs.
type CouponCounterInterface interface {
	CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error)
}

// ItemCounterInterface is the slice of item data access the summary
// endpoint needs.
type ItemCounterInterface interface {
	CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error)
}

// MerchantService provides merchant CRUD and the read-only reporting
// aggregations. Deleting a merchant cascades to its items, invoices, and
// coupons at the schema level.
type MerchantService struct {
	merchantRepo MerchantRepositoryInterface
	couponRepo   CouponCounterInterface
	invoiceRepo  InvoiceRepositoryInterface
	itemRepo     ItemCounterInterface
}

// NewMerchantService creates a new MerchantService with the given repositories.
func NewMerchantService(merchantRepo MerchantRepositoryInterface, couponRepo CouponCounterInterface, invoiceRepo InvoiceRepositoryInterface, itemRepo ItemCounterInterface) *MerchantService {
	return &MerchantService{
		merchantRepo: merchantRepo,
		couponRepo:   couponRepo,
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
	}
}

// Create validates and persists a new merchant.
func (s *MerchantService) Create(ctx context.Context, req *model.CreateMerchantRequest) (*model.Merchant, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Violations: []string{ViolationNameBlank}}
	}

	m := &model.Merchant{ID: uuid.New(), Name: req.Name}
	if err := s.merchantRepo.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert merchant: %w", err)
	}
	return m, nil
}

// Get retrieves a merchant by id.
func (s *MerchantService) Get(ctx context.Context, id uuid.UUID) (*model.Merchant, error) {
	m, err := s.merchantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	if m == nil {
		return nil, ErrMerchantNotFound
	}
	return m, nil
}

// List retrieves all merchants, newest first. A non-empty invoiceStatus
// narrows the set to merchants owning at least one invoice with that status.
func (s *MerchantService) List(ctx context.Context, invoiceStatus string) ([]model.Merchant, error) {
	if invoiceStatus != "" {
		return s.merchantRepo.ListByInvoiceStatus(ctx, invoiceStatus)
	}
	return s.merchantRepo.List(ctx)
}

// Update renames a merchant.
func (s *MerchantService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateMerchantRequest) (*model.Merchant, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Violations: []string{ViolationNameBlank}}
	}

	m := &model.Merchant{ID: id, Name: req.Name}
	if err := s.merchantRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a merchant and everything it owns.
func (s *MerchantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.merchantRepo.Delete(ctx, id)
}

// Summary builds the per-merchant reporting counts: total coupons owned
// (regardless of active state), invoices carrying a coupon, and items.
func (s *MerchantService) Summary(ctx context.Context, id uuid.UUID) (*model.MerchantSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	couponsCount, err := s.couponRepo.CountByMerchant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count coupons: %w", err)
	}
	invoiceCouponCount, err := s.invoiceRepo.CountWithCoupon(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count invoices with coupon: %w", err)
	}
	itemCount, err := s.itemRepo.CountByMerchant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	return &model.MerchantSummary{
		CouponsCount:       couponsCount,
		InvoiceCouponCount: invoiceCouponCount,
		ItemCount:          itemCount,
	}, nil
}

// DistinctCustomers retrieves the distinct customers a merchant has invoiced.
func (s *MerchantService) DistinctCustomers(ctx context.Context, id uuid.UUID) ([]model.Customer, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.invoiceRepo.DistinctCustomers(ctx, id)
}
