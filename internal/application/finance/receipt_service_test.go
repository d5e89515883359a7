package finance_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	financeapp "github.com/tamarind/backend/internal/application/finance"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/shared"
)

func expectLedgerWrites(r *repos) {
	r.entries.On("Append", mock.Anything, mock.Anything).Return(nil)
	r.outbox.On("Write", mock.Anything, mock.Anything).Return(nil)
}

func TestReceiptService_CreateReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("applies allocations and lowers customer balance", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 1000)
		s1 := saleFor(t, customer.ID, "S-1", 600, 0)
		s2 := saleFor(t, customer.ID, "S-2", 400, 0)

		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.customers.On("SaveWithLock", mock.Anything, customer).Return(nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, s1.ID).Return(s1, nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, s2.ID).Return(s2, nil).Once()
		r.sales.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil).Twice()
		r.receipts.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		expectLedgerWrites(r)

		resp, err := svc.CreateReceipt(ctx, financeapp.CreateReceiptRequest{
			CustomerID: customer.ID,
			Allocations: []financeapp.AllocationRequest{
				{SaleID: s1.ID, Amount: dec(300)},
				{SaleID: s2.ID, Amount: dec(100)},
			},
			PaymentMode: "UPI",
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(dec(400)))
		assert.Equal(t, "UPI", resp.PaymentMode)
		require.Len(t, resp.Allocations, 2)
		assert.Equal(t, 1, resp.Allocations[0].LineNo)
		assert.Equal(t, s2.ID, resp.Allocations[1].SaleID)
		assert.True(t, s1.AmountPaid.Equal(dec(300)))
		assert.True(t, s2.AmountPaid.Equal(dec(100)))
		assert.True(t, customer.OutstandingBalance.Equal(dec(600)))
		r.receipts.AssertExpectations(t)
		r.customers.AssertExpectations(t)
	})

	t.Run("empty allocation list writes nothing", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)

		_, err := svc.CreateReceipt(ctx, financeapp.CreateReceiptRequest{CustomerID: uuid.New()})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, r.customers.Calls)
		assert.Empty(t, r.sales.Calls)
		assert.Empty(t, r.receipts.Calls)
	})

	t.Run("over allocation rejects the whole receipt", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 1000)
		sale := saleFor(t, customer.ID, "S-1", 1000, 900)

		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()

		_, err := svc.CreateReceipt(ctx, financeapp.CreateReceiptRequest{
			CustomerID:  customer.ID,
			Allocations: []financeapp.AllocationRequest{{SaleID: sale.ID, Amount: dec(101)}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Payment exceeds outstanding amount", domainErr.Message)
		assert.True(t, customer.OutstandingBalance.Equal(dec(1000)))
		r.receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		r.customers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("sale of another customer", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 1000)
		sale := saleFor(t, uuid.New(), "S-9", 500, 0)

		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()

		_, err := svc.CreateReceipt(ctx, financeapp.CreateReceiptRequest{
			CustomerID:  customer.ID,
			Allocations: []financeapp.AllocationRequest{{SaleID: sale.ID, Amount: dec(10)}},
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, sale.AmountPaid.IsZero())
	})

	t.Run("unknown customer", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		id := uuid.New()
		r.customers.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		_, err := svc.CreateReceipt(ctx, financeapp.CreateReceiptRequest{
			CustomerID:  id,
			Allocations: []financeapp.AllocationRequest{{SaleID: uuid.New(), Amount: dec(10)}},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReceiptService_UpdateReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("reverts then reapplies", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 600)
		sale := saleFor(t, customer.ID, "S-1", 1000, 400)
		receipt := storedReceipt(t, customer.ID, finance.AllocationInput{SaleID: sale.ID, Amount: dec(400)})

		r.receipts.On("FindByIDForUpdate", mock.Anything, receipt.ID).Return(receipt, nil).Once()
		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.customers.On("SaveWithLock", mock.Anything, customer).Return(nil).Twice()
		r.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()
		r.sales.On("SaveWithLock", mock.Anything, sale).Return(nil).Twice()
		r.receipts.On("Save", mock.Anything, receipt).Return(nil).Once()
		expectLedgerWrites(r)

		resp, err := svc.UpdateReceipt(ctx, receipt.ID, financeapp.UpdateReceiptRequest{
			CustomerID:  customer.ID,
			Allocations: []financeapp.AllocationRequest{{SaleID: sale.ID, Amount: dec(250)}},
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(dec(250)))
		assert.Equal(t, 2, resp.Version)
		assert.True(t, sale.AmountPaid.Equal(dec(250)))
		assert.True(t, customer.OutstandingBalance.Equal(dec(750)))
		r.customers.AssertExpectations(t)
		r.sales.AssertExpectations(t)
	})

	t.Run("moves the receipt to another customer", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		oldCustomer := customerWithBalance(t, "C001", 600)
		newCustomer := customerWithBalance(t, "C002", 300)
		oldSale := saleFor(t, oldCustomer.ID, "S-1", 1000, 400)
		newSale := saleFor(t, newCustomer.ID, "S-2", 300, 0)
		receipt := storedReceipt(t, oldCustomer.ID, finance.AllocationInput{SaleID: oldSale.ID, Amount: dec(400)})

		r.receipts.On("FindByIDForUpdate", mock.Anything, receipt.ID).Return(receipt, nil).Once()
		r.customers.On("FindByIDForUpdate", mock.Anything, oldCustomer.ID).Return(oldCustomer, nil).Once()
		r.customers.On("FindByIDForUpdate", mock.Anything, newCustomer.ID).Return(newCustomer, nil).Once()
		r.customers.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		r.sales.On("FindByIDForUpdate", mock.Anything, oldSale.ID).Return(oldSale, nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, newSale.ID).Return(newSale, nil).Once()
		r.sales.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		r.receipts.On("Save", mock.Anything, receipt).Return(nil).Once()
		expectLedgerWrites(r)

		_, err := svc.UpdateReceipt(ctx, receipt.ID, financeapp.UpdateReceiptRequest{
			CustomerID:  newCustomer.ID,
			Allocations: []financeapp.AllocationRequest{{SaleID: newSale.ID, Amount: dec(300)}},
		})

		require.NoError(t, err)
		assert.True(t, oldCustomer.OutstandingBalance.Equal(dec(1000)))
		assert.True(t, oldSale.AmountPaid.IsZero())
		assert.True(t, newCustomer.OutstandingBalance.IsZero())
		assert.True(t, newSale.IsFullyPaid())
	})

	t.Run("rejected reapply leaves nothing saved", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 600)
		sale := saleFor(t, customer.ID, "S-1", 1000, 400)
		receipt := storedReceipt(t, customer.ID, finance.AllocationInput{SaleID: sale.ID, Amount: dec(400)})

		r.receipts.On("FindByIDForUpdate", mock.Anything, receipt.ID).Return(receipt, nil).Once()
		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)
		r.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()
		r.sales.On("SaveWithLock", mock.Anything, sale).Return(nil)
		r.entries.On("Append", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.UpdateReceipt(ctx, receipt.ID, financeapp.UpdateReceiptRequest{
			CustomerID:  customer.ID,
			Allocations: []financeapp.AllocationRequest{{SaleID: sale.ID, Amount: dec(1001)}},
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		r.receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		r.outbox.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("invalid allocations are rejected before any read", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		saleID := uuid.New()

		_, err := svc.UpdateReceipt(ctx, uuid.New(), financeapp.UpdateReceiptRequest{
			CustomerID: uuid.New(),
			Allocations: []financeapp.AllocationRequest{
				{SaleID: saleID, Amount: dec(5)},
				{SaleID: saleID, Amount: dec(5)},
			},
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, r.receipts.Calls)
	})
}

func TestReceiptService_DeleteReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("restores the sale and the customer", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 600)
		sale := saleFor(t, customer.ID, "S-1", 1000, 400)
		receipt := storedReceipt(t, customer.ID, finance.AllocationInput{SaleID: sale.ID, Amount: dec(400)})

		r.receipts.On("FindByIDForUpdate", mock.Anything, receipt.ID).Return(receipt, nil).Once()
		r.receipts.On("SoftDelete", mock.Anything, receipt.ID, mock.Anything).Return(nil).Once()
		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.customers.On("SaveWithLock", mock.Anything, customer).Return(nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()
		r.sales.On("SaveWithLock", mock.Anything, sale).Return(nil).Once()
		expectLedgerWrites(r)

		require.NoError(t, svc.DeleteReceipt(ctx, receipt.ID))

		assert.True(t, sale.AmountPaid.IsZero())
		assert.True(t, customer.OutstandingBalance.Equal(dec(1000)))
		assert.True(t, receipt.IsDeleted)
		assert.NotNil(t, receipt.DeletedAt)
		r.receipts.AssertExpectations(t)
	})

	t.Run("missing sale still deletes", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		customer := customerWithBalance(t, "C001", 600)
		goneSale := uuid.New()
		receipt := storedReceipt(t, customer.ID, finance.AllocationInput{SaleID: goneSale, Amount: dec(400)})

		r.receipts.On("FindByIDForUpdate", mock.Anything, receipt.ID).Return(receipt, nil).Once()
		r.receipts.On("SoftDelete", mock.Anything, receipt.ID, mock.Anything).Return(nil).Once()
		r.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
		r.customers.On("SaveWithLock", mock.Anything, customer).Return(nil).Once()
		r.sales.On("FindByIDForUpdate", mock.Anything, goneSale).Return(nil, shared.ErrNotFound).Once()
		expectLedgerWrites(r)

		require.NoError(t, svc.DeleteReceipt(ctx, receipt.ID))

		assert.True(t, customer.OutstandingBalance.Equal(dec(1000)))
		r.sales.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("unknown receipt", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewReceiptService(r.engine, r.receipts)
		id := uuid.New()
		r.receipts.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		err := svc.DeleteReceipt(ctx, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReceiptService_ListReceipts_Defaults(t *testing.T) {
	r := newRepos()
	svc := financeapp.NewReceiptService(r.engine, r.receipts)
	customerID := uuid.New()
	receipt := storedReceipt(t, customerID, finance.AllocationInput{SaleID: uuid.New(), Amount: dec(75)})

	r.receipts.On("FindAll", mock.Anything, mock.MatchedBy(func(f finance.ReceiptFilter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "payment_date" && f.OrderDir == "desc" &&
			f.PaymentMode != nil && *f.PaymentMode == finance.PaymentModeCheque
	})).Return([]finance.CustomerReceipt{*receipt}, nil).Once()
	r.receipts.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

	items, total, err := svc.ListReceipts(context.Background(), financeapp.ReceiptListFilter{PaymentMode: "cheque"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, customerID, items[0].CustomerID)
}
