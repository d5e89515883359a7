package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
)

// =============================================================================
// Holder repositories
// =============================================================================

// MockCustomerRepository is a testify mock of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

// MockSupplierRepository is a testify mock of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) SaveWithLock(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

// =============================================================================
// Trade repositories
// =============================================================================

// MockSaleRepository is a testify mock of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter trade.SaleFilter) ([]trade.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter trade.SaleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) ExistsByNumber(ctx context.Context, saleNumber string) (bool, error) {
	args := m.Called(ctx, saleNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPurchaseRepository is a testify mock of trade.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindAll(ctx context.Context, filter trade.PurchaseFilter) ([]trade.Purchase, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Count(ctx context.Context, filter trade.PurchaseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRepository) ExistsByNumber(ctx context.Context, purchaseNumber string) (bool, error) {
	args := m.Called(ctx, purchaseNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// =============================================================================
// Finance repositories
// =============================================================================

// MockReceiptRepository is a testify mock of finance.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CustomerReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CustomerReceipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.CustomerReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CustomerReceipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAll(ctx context.Context, filter finance.ReceiptFilter) ([]finance.CustomerReceipt, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.CustomerReceipt), args.Error(1)
}

func (m *MockReceiptRepository) Count(ctx context.Context, filter finance.ReceiptFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *finance.CustomerReceipt) error {
	return m.Called(ctx, receipt).Error(0)
}

func (m *MockReceiptRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// MockSupplierPaymentRepository is a testify mock of finance.SupplierPaymentRepository
type MockSupplierPaymentRepository struct {
	mock.Mock
}

func (m *MockSupplierPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SupplierPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.SupplierPayment), args.Error(1)
}

func (m *MockSupplierPaymentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.SupplierPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.SupplierPayment), args.Error(1)
}

func (m *MockSupplierPaymentRepository) FindAll(ctx context.Context, filter finance.SupplierPaymentFilter) ([]finance.SupplierPayment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.SupplierPayment), args.Error(1)
}

func (m *MockSupplierPaymentRepository) Count(ctx context.Context, filter finance.SupplierPaymentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierPaymentRepository) Save(ctx context.Context, payment *finance.SupplierPayment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockSupplierPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockLedgerEntryRepository is a testify mock of finance.LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Append(ctx context.Context, entries ...*finance.LedgerEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLedgerEntryRepository) FindByHolder(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID, filter shared.Filter) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, holderType, holderID, filter)
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) CountByHolder(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, holderType, holderID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReconciliationReader is a testify mock of finance.ReconciliationReader
type MockReconciliationReader struct {
	mock.Mock
}

func (m *MockReconciliationReader) CustomerBalances(ctx context.Context) ([]finance.BalanceSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]finance.BalanceSnapshot), args.Error(1)
}

func (m *MockReconciliationReader) SupplierBalances(ctx context.Context) ([]finance.BalanceSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]finance.BalanceSnapshot), args.Error(1)
}

func (m *MockReconciliationReader) SalePaidAmounts(ctx context.Context) ([]finance.SalePaidSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]finance.SalePaidSnapshot), args.Error(1)
}

// MockOutboxWriter collects events written through the ledger outbox
type MockOutboxWriter struct {
	mock.Mock
}

func (m *MockOutboxWriter) Write(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

var (
	_ partner.CustomerRepository        = (*MockCustomerRepository)(nil)
	_ partner.SupplierRepository        = (*MockSupplierRepository)(nil)
	_ trade.SaleRepository              = (*MockSaleRepository)(nil)
	_ trade.PurchaseRepository          = (*MockPurchaseRepository)(nil)
	_ finance.ReceiptRepository         = (*MockReceiptRepository)(nil)
	_ finance.SupplierPaymentRepository = (*MockSupplierPaymentRepository)(nil)
	_ finance.LedgerEntryRepository     = (*MockLedgerEntryRepository)(nil)
	_ finance.ReconciliationReader      = (*MockReconciliationReader)(nil)
)
