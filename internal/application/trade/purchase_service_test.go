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
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
	"github.com/tamarind/backend/tests/testutil"
	"go.uber.org/zap"
)

type purchaseFixture struct {
	suppliers *testutil.MockSupplierRepository
	purchases *testutil.MockPurchaseRepository
	entries   *testutil.MockLedgerEntryRepository
	service   *PurchaseService
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		suppliers: new(testutil.MockSupplierRepository),
		purchases: new(testutil.MockPurchaseRepository),
		entries:   new(testutil.MockLedgerEntryRepository),
	}
	scope := ledger.NewNoOpTransactionScope(ledger.NoOpRepositories{
		Suppliers:     f.suppliers,
		Purchases:     f.purchases,
		LedgerEntries: f.entries,
	})
	f.service = NewPurchaseService(ledger.NewEngine(scope, zap.NewNop()), f.purchases)
	return f
}

func newSupplier(t *testing.T) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(partner.Profile{Code: "SUP-1", Name: "Tumkur Growers"}, decimal.Zero)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestPurchaseService_Create_ComputesWeightLossAndCharges(t *testing.T) {
	f := newPurchaseFixture()
	ctx := context.Background()
	supplier := newSupplier(t)

	f.purchases.On("ExistsByNumber", ctx, "P-1").Return(false, nil)
	f.suppliers.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil)
	f.purchases.On("Save", mock.Anything, mock.AnythingOfType("*trade.Purchase")).Return(nil)
	f.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil)
	f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Create(ctx, CreatePurchaseRequest{
		SupplierID:     supplier.ID,
		PurchaseNumber: "P-1",
		GrossWeight:    decimal.NewFromInt(1000),
		NetWeight:      decimal.NewFromInt(950),
		Rate:           decimal.RequireFromString("42.5"),
	})

	require.NoError(t, err)
	assert.True(t, result.WeightLossPercent.Equal(decimal.NewFromInt(5)))
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(40375)))
	assert.True(t, supplier.OutstandingBalance.Equal(decimal.NewFromInt(40375)))
	assert.False(t, result.PurchaseDate.IsZero())
}

func TestPurchaseService_Create_NetAboveGross(t *testing.T) {
	f := newPurchaseFixture()
	ctx := context.Background()

	f.purchases.On("ExistsByNumber", ctx, "P-2").Return(false, nil)

	_, err := f.service.Create(ctx, CreatePurchaseRequest{
		SupplierID:     uuid.New(),
		PurchaseNumber: "P-2",
		GrossWeight:    decimal.NewFromInt(100),
		NetWeight:      decimal.NewFromInt(101),
		Rate:           decimal.NewFromInt(1),
	})

	assert.ErrorIs(t, err, shared.ErrValidation)
	f.suppliers.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestPurchaseService_Delete_ReversesCharge(t *testing.T) {
	f := newPurchaseFixture()
	ctx := context.Background()
	supplier := newSupplier(t)

	purchase, err := trade.NewPurchase(supplier.ID, "P-3", time.Now(), decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.NewFromInt(7), "")
	require.NoError(t, err)
	supplier.AdjustOutstanding(purchase.TotalAmount, "seed")
	supplier.ClearDomainEvents()

	f.purchases.On("FindByID", mock.Anything, purchase.ID).Return(purchase, nil)
	f.suppliers.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil)
	f.purchases.On("FindByIDForUpdate", mock.Anything, purchase.ID).Return(purchase, nil)
	f.purchases.On("Delete", mock.Anything, purchase.ID).Return(nil)
	f.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil)
	f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.service.Delete(ctx, purchase.ID))
	assert.True(t, supplier.OutstandingBalance.IsZero())
	f.purchases.AssertExpectations(t)
}

func TestPurchaseService_GetByID_NotFound(t *testing.T) {
	f := newPurchaseFixture()
	ctx := context.Background()
	id := uuid.New()

	f.purchases.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
