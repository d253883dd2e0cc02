package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/pkg/database"
)

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn         func(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error
	getByIDFn        func(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error)
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, merchantID, couponID uuid.UUID) (*model.Coupon, error)
	listByMerchantFn func(ctx context.Context, merchantID uuid.UUID, active *bool) ([]model.Coupon, error)
	countActiveFn    func(ctx context.Context, tx database.TxQuerier, merchantID uuid.UUID) (int, error)
	codeInUseFn      func(ctx context.Context, tx database.TxQuerier, code string, excludeID uuid.UUID) (bool, error)
	updateFn         func(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error
	setActiveFn      func(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID, active bool) error
	incrementUsageFn func(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) error
}

func (m *mockCouponRepository) Insert(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, c)
	}
	return nil
}

func (m *mockCouponRepository) GetByID(ctx context.Context, merchantID, couponID uuid.UUID) (*model.Coupon, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, merchantID, couponID)
	}
	return nil, nil
}

func (m *mockCouponRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, merchantID, couponID uuid.UUID) (*model.Coupon, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, merchantID, couponID)
	}
	return nil, ErrCouponNotFound
}

func (m *mockCouponRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, active *bool) ([]model.Coupon, error) {
	if m.listByMerchantFn != nil {
		return m.listByMerchantFn(ctx, merchantID, active)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponRepository) CountActive(ctx context.Context, tx database.TxQuerier, merchantID uuid.UUID) (int, error) {
	if m.countActiveFn != nil {
		return m.countActiveFn(ctx, tx, merchantID)
	}
	return 0, nil
}

func (m *mockCouponRepository) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	return 0, nil
}

func (m *mockCouponRepository) CodeInUse(ctx context.Context, tx database.TxQuerier, code string, excludeID uuid.UUID) (bool, error) {
	if m.codeInUseFn != nil {
		return m.codeInUseFn(ctx, tx, code, excludeID)
	}
	return false, nil
}

func (m *mockCouponRepository) Update(ctx context.Context, tx database.TxQuerier, c *model.Coupon) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tx, c)
	}
	return nil
}

func (m *mockCouponRepository) SetActive(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, tx, couponID, active)
	}
	return nil
}

func (m *mockCouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) error {
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, tx, couponID)
	}
	return nil
}

// mockMerchantRepository is a mock implementation of MerchantRepositoryInterface
// and MerchantLockerInterface.
type mockMerchantRepository struct {
	insertFn              func(ctx context.Context, m *model.Merchant) error
	getByIDFn             func(ctx context.Context, id uuid.UUID) (*model.Merchant, error)
	getForUpdateFn        func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Merchant, error)
	listFn                func(ctx context.Context) ([]model.Merchant, error)
	listByInvoiceStatusFn func(ctx context.Context, status string) ([]model.Merchant, error)
	updateFn              func(ctx context.Context, m *model.Merchant) error
	deleteFn              func(ctx context.Context, id uuid.UUID) error
}

func (m *mockMerchantRepository) Insert(ctx context.Context, merchant *model.Merchant) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, merchant)
	}
	return nil
}

func (m *mockMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Merchant, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.Merchant{ID: id, Name: "Test Merchant"}, nil
}

func (m *mockMerchantRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Merchant, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return &model.Merchant{ID: id, Name: "Test Merchant"}, nil
}

func (m *mockMerchantRepository) List(ctx context.Context) ([]model.Merchant, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Merchant{}, nil
}

func (m *mockMerchantRepository) ListByInvoiceStatus(ctx context.Context, status string) ([]model.Merchant, error) {
	if m.listByInvoiceStatusFn != nil {
		return m.listByInvoiceStatusFn(ctx, status)
	}
	return []model.Merchant{}, nil
}

func (m *mockMerchantRepository) Update(ctx context.Context, merchant *model.Merchant) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, merchant)
	}
	return nil
}

func (m *mockMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockInvoiceRepository is a mock implementation of InvoiceRepositoryInterface.
type mockInvoiceRepository struct {
	insertFn            func(ctx context.Context, tx database.TxQuerier, inv *model.Invoice) error
	listByMerchantFn    func(ctx context.Context, merchantID uuid.UUID, status string) ([]model.Invoice, error)
	listByCouponFn      func(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) ([]model.Invoice, error)
	countWithCouponFn   func(ctx context.Context, merchantID uuid.UUID) (int, error)
	distinctCustomersFn func(ctx context.Context, merchantID uuid.UUID) ([]model.Customer, error)
}

func (m *mockInvoiceRepository) Insert(ctx context.Context, tx database.TxQuerier, inv *model.Invoice) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, inv)
	}
	return nil
}

func (m *mockInvoiceRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, status string) ([]model.Invoice, error) {
	if m.listByMerchantFn != nil {
		return m.listByMerchantFn(ctx, merchantID, status)
	}
	return []model.Invoice{}, nil
}

func (m *mockInvoiceRepository) ListByCoupon(ctx context.Context, tx database.TxQuerier, couponID uuid.UUID) ([]model.Invoice, error) {
	if m.listByCouponFn != nil {
		return m.listByCouponFn(ctx, tx, couponID)
	}
	return []model.Invoice{}, nil
}

func (m *mockInvoiceRepository) CountWithCoupon(ctx context.Context, merchantID uuid.UUID) (int, error) {
	if m.countWithCouponFn != nil {
		return m.countWithCouponFn(ctx, merchantID)
	}
	return 0, nil
}

func (m *mockInvoiceRepository) DistinctCustomers(ctx context.Context, merchantID uuid.UUID) ([]model.Customer, error) {
	if m.distinctCustomersFn != nil {
		return m.distinctCustomersFn(ctx, merchantID)
	}
	return []model.Customer{}, nil
}

// mockCustomerRepository is a mock implementation of CustomerRepositoryInterface.
type mockCustomerRepository struct {
	existsFn func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockCustomerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitCalled   bool
	rollbackCalled bool
	commitFn       func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	m.commitCalled = true
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	m.rollbackCalled = true
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	tx      *mockTx
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	if m.tx == nil {
		m.tx = &mockTx{}
	}
	return m.tx, nil
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
