package partner

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/tests/testutil"
	"go.uber.org/zap"
)

func newSupplierService(repo *testutil.MockSupplierRepository) *SupplierService {
	scope := ledger.NewNoOpTransactionScope(ledger.NoOpRepositories{Suppliers: repo})
	return NewSupplierService(ledger.NewEngine(scope, zap.NewNop()), repo)
}

func TestSupplierService_Create(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := newSupplierService(repo)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "S-01").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	result, err := service.Create(ctx, CreateHolderRequest{Code: "s-01", Name: "Hosur Farms"})

	require.NoError(t, err)
	assert.Equal(t, "S-01", result.Code)
	assert.True(t, result.OutstandingBalance.IsZero())
	assert.False(t, result.InCredit)
}

func TestSupplierService_Create_DuplicateCode(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := newSupplierService(repo)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "S-01").Return(true, nil)

	_, err := service.Create(ctx, CreateHolderRequest{Code: "S-01", Name: "Hosur Farms"})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestSupplierService_Update_NegativeBalanceUntouched(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := newSupplierService(repo)

	supplier, err := partner.NewSupplier(partner.Profile{Code: "S-02", Name: "Krishna Agro"}, decimal.Zero)
	require.NoError(t, err)
	supplier.AdjustOutstanding(decimal.NewFromInt(-100), "test")

	repo.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("SaveWithLock", mock.Anything, supplier).Return(nil)

	phone := "080 2345 6789"
	result, err := service.Update(context.Background(), supplier.ID, UpdateHolderRequest{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "080 2345 6789", result.Phone)
	assert.True(t, result.OutstandingBalance.Equal(decimal.NewFromInt(-100)))
	assert.True(t, result.InCredit)
}

func TestSupplierService_List(t *testing.T) {
	repo := new(testutil.MockSupplierRepository)
	service := newSupplierService(repo)
	ctx := context.Background()

	repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return([]partner.Supplier{}, nil)
	repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

	items, total, err := service.List(ctx, HolderListFilter{Page: 2, PageSize: 10, OrderBy: "name", OrderDir: "desc"})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
