package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
	"github.com/tamarind/backend/tests/testutil"
	"go.uber.org/zap"
)

type saleFixture struct {
	customers *testutil.MockCustomerRepository
	sales     *testutil.MockSaleRepository
	entries   *testutil.MockLedgerEntryRepository
	outbox    *testutil.MockOutboxWriter
	service   *SaleService
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		customers: new(testutil.MockCustomerRepository),
		sales:     new(testutil.MockSaleRepository),
		entries:   new(testutil.MockLedgerEntryRepository),
		outbox:    new(testutil.MockOutboxWriter),
	}
	scope := ledger.NewNoOpTransactionScope(ledger.NoOpRepositories{
		Customers:     f.customers,
		Sales:         f.sales,
		LedgerEntries: f.entries,
		Outbox:        f.outbox,
	})
	f.service = NewSaleService(ledger.NewEngine(scope, zap.NewNop()), f.sales)
	return f
}

func newCustomer(t *testing.T, opening int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.Profile{Code: "C-1", Name: "Anand"}, decimal.NewFromInt(opening))
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestSaleService_Create_ChargesCustomer(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()
	customer := newCustomer(t, 100)

	f.sales.On("ExistsByNumber", ctx, "S-1001").Return(false, nil)
	f.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
	f.sales.On("Save", mock.Anything, mock.AnythingOfType("*trade.Sale")).Return(nil)
	f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)
	f.entries.On("Append", mock.Anything, mock.MatchedBy(func(entries []*finance.LedgerEntry) bool {
		return len(entries) == 1 &&
			entries[0].Action == finance.EntryActionCharge &&
			entries[0].SourceType == finance.SourceTypeSale &&
			entries[0].Delta.Equal(decimal.NewFromInt(900))
	})).Return(nil)
	f.outbox.On("Write", mock.Anything, mock.Anything).Return(nil)

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := f.service.Create(ctx, CreateSaleRequest{
		CustomerID: customer.ID,
		SaleNumber: "S-1001",
		SaleDate:   &date,
		Quantity:   decimal.NewFromInt(30),
		Rate:       decimal.NewFromInt(30),
	})

	require.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(900)))
	assert.True(t, result.AmountPaid.IsZero())
	assert.Equal(t, date, result.SaleDate)
	assert.True(t, customer.OutstandingBalance.Equal(decimal.NewFromInt(1000)))
	f.entries.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
}

func TestSaleService_Create_DuplicateNumber(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	f.sales.On("ExistsByNumber", ctx, "S-1").Return(true, nil)

	_, err := f.service.Create(ctx, CreateSaleRequest{CustomerID: uuid.New(), SaleNumber: "S-1",
		Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestSaleService_Create_UnknownCustomer(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()
	id := uuid.New()

	f.sales.On("ExistsByNumber", ctx, "S-2").Return(false, nil)
	f.customers.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(ctx, CreateSaleRequest{CustomerID: id, SaleNumber: "S-2",
		Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unpaid sale reverses the charge", func(t *testing.T) {
		f := newSaleFixture()
		customer := newCustomer(t, 0)
		sale, err := trade.NewSale(customer.ID, "S-3", time.Now(), decimal.NewFromInt(10), decimal.NewFromInt(50), "")
		require.NoError(t, err)
		customer.AdjustOutstanding(sale.TotalAmount, "seed")
		customer.ClearDomainEvents()

		f.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		f.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)
		f.sales.On("Delete", mock.Anything, sale.ID).Return(nil)
		f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)
		f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)
		f.outbox.On("Write", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, f.service.Delete(ctx, sale.ID))
		assert.True(t, customer.OutstandingBalance.IsZero())
		f.sales.AssertExpectations(t)
	})

	t.Run("paid sale is rejected", func(t *testing.T) {
		f := newSaleFixture()
		customer := newCustomer(t, 0)
		sale, err := trade.NewSale(customer.ID, "S-4", time.Now(), decimal.NewFromInt(10), decimal.NewFromInt(50), "")
		require.NoError(t, err)
		require.NoError(t, sale.ApplyPayment(decimal.NewFromInt(1)))

		f.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		f.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)

		err = f.service.Delete(ctx, sale.ID)

		assert.ErrorIs(t, err, shared.ErrValidation)
		f.sales.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing sale", func(t *testing.T) {
		f := newSaleFixture()
		id := uuid.New()
		f.sales.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.service.Delete(ctx, id), shared.ErrNotFound)
	})
}

func TestSaleService_List_Defaults(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()
	customerID := uuid.New()

	f.sales.On("FindAll", ctx, mock.MatchedBy(func(filter trade.SaleFilter) bool {
		return filter.Page == 1 && filter.PageSize == 20 && filter.OrderBy == "sale_date" &&
			filter.OrderDir == "desc" && filter.UnpaidOnly && *filter.CustomerID == customerID
	})).Return([]trade.Sale{}, nil)
	f.sales.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	items, total, err := f.service.List(ctx, SaleListFilter{CustomerID: &customerID, UnpaidOnly: true})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	f.sales.AssertExpectations(t)
}
