package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/littleshop/catalog-api/internal/model"
)

// mockItemCounter is a mock implementation of ItemCounterInterface.
type mockItemCounter struct {
	countFn func(ctx context.Context, merchantID uuid.UUID) (int, error)
}

func (m *mockItemCounter) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, merchantID)
	}
	return 0, nil
}

// mockCouponCounter is a mock implementation of CouponCounterInterface.
type mockCouponCounter struct {
	countFn func(ctx context.Context, merchantID uuid.UUID) (int, error)
}

func (m *mockCouponCounter) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, merchantID)
	}
	return 0, nil
}

func TestMerchantService_Create_Success(t *testing.T) {
	var captured *model.Merchant
	merchantRepo := &mockMerchantRepository{
		insertFn: func(ctx context.Context, m *model.Merchant) error {
			captured = m
			return nil
		},
	}

	svc := NewMerchantService(merchantRepo, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})
	merchant, err := svc.Create(context.Background(), &model.CreateMerchantRequest{Name: "Schroeder-Jerde"})

	require.NoError(t, err)
	assert.Equal(t, "Schroeder-Jerde", captured.Name)
	assert.NotEqual(t, uuid.Nil, merchant.ID)
}

func TestMerchantService_Create_BlankName(t *testing.T) {
	svc := NewMerchantService(&mockMerchantRepository{}, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})

	_, err := svc.Create(context.Background(), &model.CreateMerchantRequest{Name: "   "})

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Violations, ViolationNameBlank)
}

func TestMerchantService_Get_NotFound(t *testing.T) {
	merchantRepo := &mockMerchantRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Merchant, error) {
			return nil, nil
		},
	}
	svc := NewMerchantService(merchantRepo, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})

	_, err := svc.Get(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, ErrMerchantNotFound))
}

func TestMerchantService_Summary(t *testing.T) {
	merchantID := uuid.New()
	couponCounter := &mockCouponCounter{
		countFn: func(ctx context.Context, id uuid.UUID) (int, error) { return 7, nil },
	}
	invoiceRepo := &mockInvoiceRepository{
		countWithCouponFn: func(ctx context.Context, id uuid.UUID) (int, error) { return 3, nil },
	}
	itemCounter := &mockItemCounter{
		countFn: func(ctx context.Context, id uuid.UUID) (int, error) { return 12, nil },
	}

	svc := NewMerchantService(&mockMerchantRepository{}, couponCounter, invoiceRepo, itemCounter)
	summary, err := svc.Summary(context.Background(), merchantID)

	require.NoError(t, err)
	assert.Equal(t, 7, summary.CouponsCount, "counts all coupons regardless of active state")
	assert.Equal(t, 3, summary.InvoiceCouponCount)
	assert.Equal(t, 12, summary.ItemCount)
}

func TestMerchantService_Summary_MerchantNotFound(t *testing.T) {
	merchantRepo := &mockMerchantRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Merchant, error) {
			return nil, nil
		},
	}
	svc := NewMerchantService(merchantRepo, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})

	_, err := svc.Summary(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, ErrMerchantNotFound))
}

func TestMerchantService_List_StatusRoutesToInvoiceJoin(t *testing.T) {
	joinCalled := false
	plainCalled := false
	merchantRepo := &mockMerchantRepository{
		listFn: func(ctx context.Context) ([]model.Merchant, error) {
			plainCalled = true
			return []model.Merchant{}, nil
		},
		listByInvoiceStatusFn: func(ctx context.Context, status string) ([]model.Merchant, error) {
			joinCalled = true
			assert.Equal(t, model.InvoiceStatusPackaged, status)
			return []model.Merchant{}, nil
		},
	}
	svc := NewMerchantService(merchantRepo, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})

	_, err := svc.List(context.Background(), model.InvoiceStatusPackaged)
	require.NoError(t, err)
	assert.True(t, joinCalled)
	assert.False(t, plainCalled)

	_, err = svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, plainCalled)
}

func TestMerchantService_Update_BlankName(t *testing.T) {
	svc := NewMerchantService(&mockMerchantRepository{}, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})

	_, err := svc.Update(context.Background(), uuid.New(), &model.UpdateMerchantRequest{Name: ""})

	_, ok := AsValidationError(err)
	assert.True(t, ok)
}

func TestMerchantService_Delete_NotFound(t *testing.T) {
	merchantRepo := &mockMerchantRepository{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return ErrMerchantNotFound
		},
	}
	svc := NewMerchantService(merchantRepo, &mockCouponCounter{}, &mockInvoiceRepository{}, &mockItemCounter{})

	err := svc.Delete(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, ErrMerchantNotFound))
}

func TestMerchantService_DistinctCustomers(t *testing.T) {
	customers := []model.Customer{
		{ID: uuid.New(), FirstName: "Joey", LastName: "Ondricka"},
		{ID: uuid.New(), FirstName: "Cecelia", LastName: "Osinski"},
	}
	invoiceRepo := &mockInvoiceRepository{
		distinctCustomersFn: func(ctx context.Context, merchantID uuid.UUID) ([]model.Customer, error) {
			return customers, nil
		},
	}
	svc := NewMerchantService(&mockMerchantRepository{}, &mockCouponCounter{}, invoiceRepo, &mockItemCounter{})

	got, err := svc.DistinctCustomers(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, customers, got)
}
