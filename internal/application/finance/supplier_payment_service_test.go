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

func storedPayment(t *testing.T, supplierID uuid.UUID, amount int64) *finance.SupplierPayment {
	t.Helper()
	p, err := finance.NewSupplierPayment(supplierID, dec(amount), finance.ReceiptDetails{})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestSupplierPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("overpayment drives the balance negative", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		supplier := supplierWithBalance(t, "SUP-B", 400)

		r.suppliers.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil).Once()
		r.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil).Once()
		r.payments.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		expectLedgerWrites(r)

		resp, err := svc.CreateSupplierPayment(ctx, financeapp.CreateSupplierPaymentRequest{
			SupplierID:  supplier.ID,
			Amount:      dec(500),
			PaymentMode: "BANK_TRANSFER",
			ReferenceNo: "NEFT-2291",
		})

		require.NoError(t, err)
		assert.Equal(t, "BANK_TRANSFER", resp.PaymentMode)
		assert.True(t, supplier.OutstandingBalance.Equal(dec(-100)))
		assert.True(t, supplier.IsInCredit())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)

		_, err := svc.CreateSupplierPayment(ctx, financeapp.CreateSupplierPaymentRequest{SupplierID: uuid.New(), Amount: dec(0)})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, r.suppliers.Calls)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		id := uuid.New()
		r.suppliers.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		_, err := svc.CreateSupplierPayment(ctx, financeapp.CreateSupplierPaymentRequest{SupplierID: id, Amount: dec(10)})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		r.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSupplierPaymentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("same supplier applies the difference", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		supplier := supplierWithBalance(t, "SUP-A", 700)
		payment := storedPayment(t, supplier.ID, 300)

		r.payments.On("FindByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil).Once()
		r.payments.On("Save", mock.Anything, payment).Return(nil).Once()
		r.suppliers.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil).Once()
		r.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil).Once()
		expectLedgerWrites(r)

		resp, err := svc.UpdateSupplierPayment(ctx, payment.ID, financeapp.UpdateSupplierPaymentRequest{
			SupplierID: supplier.ID,
			Amount:     dec(400),
		})

		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(dec(400)))
		assert.True(t, supplier.OutstandingBalance.Equal(dec(600)))
		r.suppliers.AssertExpectations(t)
	})

	t.Run("unchanged amount does not touch the supplier", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		supplier := supplierWithBalance(t, "SUP-A", 700)
		payment := storedPayment(t, supplier.ID, 300)

		r.payments.On("FindByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil).Once()
		r.payments.On("Save", mock.Anything, payment).Return(nil).Once()
		r.suppliers.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil).Once()
		r.outbox.On("Write", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.UpdateSupplierPayment(ctx, payment.ID, financeapp.UpdateSupplierPaymentRequest{
			SupplierID: supplier.ID,
			Amount:     dec(300),
			Notes:      "corrected notes",
		})

		require.NoError(t, err)
		assert.True(t, supplier.OutstandingBalance.Equal(dec(700)))
		r.suppliers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		r.entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("supplier change moves the amount", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		oldSupplier := supplierWithBalance(t, "SUP-A", 700)
		newSupplier := supplierWithBalance(t, "SUP-B", 400)
		payment := storedPayment(t, oldSupplier.ID, 300)

		r.payments.On("FindByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil).Once()
		r.payments.On("Save", mock.Anything, payment).Return(nil).Once()
		r.suppliers.On("FindByIDForUpdate", mock.Anything, oldSupplier.ID).Return(oldSupplier, nil).Once()
		r.suppliers.On("FindByIDForUpdate", mock.Anything, newSupplier.ID).Return(newSupplier, nil).Once()
		r.suppliers.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil).Twice()
		expectLedgerWrites(r)

		_, err := svc.UpdateSupplierPayment(ctx, payment.ID, financeapp.UpdateSupplierPaymentRequest{
			SupplierID: newSupplier.ID,
			Amount:     dec(500),
		})

		require.NoError(t, err)
		assert.True(t, oldSupplier.OutstandingBalance.Equal(dec(1000)))
		assert.True(t, newSupplier.OutstandingBalance.Equal(dec(-100)))
	})
}

func TestSupplierPaymentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("restores the supplier balance", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		supplier := supplierWithBalance(t, "SUP-A", 600)
		payment := storedPayment(t, supplier.ID, 400)

		r.payments.On("FindByIDForUpdate", mock.Anything, payment.ID).Return(payment, nil).Once()
		r.payments.On("Delete", mock.Anything, payment.ID).Return(nil).Once()
		r.suppliers.On("FindByIDForUpdate", mock.Anything, supplier.ID).Return(supplier, nil).Once()
		r.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil).Once()
		expectLedgerWrites(r)

		require.NoError(t, svc.DeleteSupplierPayment(ctx, payment.ID))

		assert.True(t, supplier.OutstandingBalance.Equal(dec(1000)))
		r.payments.AssertExpectations(t)
	})

	t.Run("unknown payment", func(t *testing.T) {
		r := newRepos()
		svc := financeapp.NewSupplierPaymentService(r.engine, r.payments)
		id := uuid.New()
		r.payments.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		assert.ErrorIs(t, svc.DeleteSupplierPayment(ctx, id), shared.ErrNotFound)
	})
}
