package ledger_test

import (
	"context"
	"errors"
	"sync"
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

type recordedOperation struct {
	operation string
	outcome   string
}

type fakeMetrics struct {
	mu         sync.Mutex
	operations []recordedOperation
	retries    []string
	warnings   []string
}

func (m *fakeMetrics) RecordOperation(_ context.Context, operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, recordedOperation{operation, outcome})
}

func (m *fakeMetrics) RecordRetry(_ context.Context, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries = append(m.retries, operation)
}

func (m *fakeMetrics) RecordIntegrityWarning(_ context.Context, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, kind)
}

type engineFixture struct {
	customers *testutil.MockCustomerRepository
	sales     *testutil.MockSaleRepository
	entries   *testutil.MockLedgerEntryRepository
	outbox    *testutil.MockOutboxWriter
	metrics   *fakeMetrics
	engine    *ledger.Engine
}

func newEngineFixture(opts ...ledger.EngineOption) *engineFixture {
	f := &engineFixture{
		customers: new(testutil.MockCustomerRepository),
		sales:     new(testutil.MockSaleRepository),
		entries:   new(testutil.MockLedgerEntryRepository),
		outbox:    new(testutil.MockOutboxWriter),
		metrics:   &fakeMetrics{},
	}
	scope := ledger.NewNoOpTransactionScope(ledger.NoOpRepositories{
		Customers:     f.customers,
		Sales:         f.sales,
		LedgerEntries: f.entries,
		Outbox:        f.outbox,
	})
	f.engine = ledger.NewEngine(scope, zap.NewNop(), append([]ledger.EngineOption{ledger.WithMetrics(f.metrics)}, opts...)...)
	return f
}

func newCustomer(t *testing.T, balance int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.Profile{Code: "C-" + uuid.NewString()[:8], Name: "Ravi Traders"}, decimal.NewFromInt(balance))
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func newSale(t *testing.T, customerID uuid.UUID, total, paid int64) *trade.Sale {
	t.Helper()
	s, err := trade.NewSale(customerID, "S-"+uuid.NewString()[:8], time.Now(), decimal.NewFromInt(total), decimal.NewFromInt(1), "")
	require.NoError(t, err)
	s.AmountPaid = decimal.NewFromInt(paid)
	s.ClearDomainEvents()
	return s
}

func receiptSource() ledger.Source {
	return ledger.Source{Type: finance.SourceTypeReceipt, ID: uuid.New()}
}

func TestEngine_Run_AdjustCustomerWritesJournalAndEvents(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	customer := newCustomer(t, 1000)
	source := receiptSource()

	f.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()
	f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil).Once()

	var appended []*finance.LedgerEntry
	f.entries.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		appended = append(appended, args.Get(1).([]*finance.LedgerEntry)...)
	}).Return(nil)

	var written []shared.DomainEvent
	f.outbox.On("Write", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = append(written, args.Get(1).([]shared.DomainEvent)...)
	}).Return(nil).Once()

	err := f.engine.Run(ctx, "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		_, err := tx.AdjustCustomer(ctx, customer.ID, decimal.NewFromInt(-400), source, finance.EntryActionApply)
		return err
	})

	require.NoError(t, err)
	assert.True(t, customer.OutstandingBalance.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 2, customer.GetVersion())

	require.Len(t, appended, 1)
	assert.Equal(t, partner.HolderTypeCustomer, appended[0].HolderType)
	assert.Equal(t, source.ID, appended[0].SourceID)
	assert.True(t, appended[0].BalanceBefore.Equal(decimal.NewFromInt(1000)))
	assert.True(t, appended[0].BalanceAfter.Equal(decimal.NewFromInt(600)))

	require.Len(t, written, 1)
	assert.Equal(t, partner.EventTypeCustomerBalanceChanged, written[0].EventType())
	assert.Empty(t, customer.GetDomainEvents())

	assert.Equal(t, []recordedOperation{{"create_receipt", ledger.OutcomeSuccess}}, f.metrics.operations)
	f.customers.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
}

func TestEngine_Run_ZeroDeltaDoesNotTouchHolder(t *testing.T) {
	f := newEngineFixture()
	customer := newCustomer(t, 250)
	f.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil).Once()

	err := f.engine.Run(context.Background(), "update_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		_, err := tx.AdjustCustomer(ctx, customer.ID, decimal.Zero, receiptSource(), finance.EntryActionApply)
		return err
	})

	require.NoError(t, err)
	f.customers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	f.entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.outbox.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestEngine_Run_RetriesLostVersionCheck(t *testing.T) {
	f := newEngineFixture()
	first := newCustomer(t, 1000)
	second := newCustomer(t, 900)
	second.ID = first.ID

	f.customers.On("FindByIDForUpdate", mock.Anything, first.ID).Return(first, nil).Once()
	f.customers.On("FindByIDForUpdate", mock.Anything, first.ID).Return(second, nil).Once()
	f.customers.On("SaveWithLock", mock.Anything, first).Return(shared.ErrConcurrencyConflict).Once()
	f.customers.On("SaveWithLock", mock.Anything, second).Return(nil).Once()
	f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.outbox.On("Write", mock.Anything, mock.Anything).Return(nil).Once()

	attempts := 0
	err := f.engine.Run(context.Background(), "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		attempts++
		_, err := tx.AdjustCustomer(ctx, first.ID, decimal.NewFromInt(-100), receiptSource(), finance.EntryActionApply)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, second.OutstandingBalance.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, []string{"create_receipt"}, f.metrics.retries)
	assert.Equal(t, ledger.OutcomeSuccess, f.metrics.operations[0].outcome)
	f.customers.AssertExpectations(t)
}

func TestEngine_Run_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newEngineFixture(ledger.WithMaxAttempts(2))

	attempts := 0
	err := f.engine.Run(context.Background(), "create_sale", func(context.Context, *ledger.Tx) error {
		attempts++
		return shared.ErrConcurrencyConflict
	})

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 2, attempts)
	assert.Len(t, f.metrics.retries, 1)
	assert.Equal(t, ledger.OutcomeConflict, f.metrics.operations[0].outcome)
}

func TestEngine_Run_ErrorClassification(t *testing.T) {
	t.Run("domain errors pass through", func(t *testing.T) {
		f := newEngineFixture()
		err := f.engine.Run(context.Background(), "create_receipt", func(context.Context, *ledger.Tx) error {
			return shared.NewValidationError("Receipt must have at least one allocation")
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		assert.Equal(t, ledger.OutcomeRejected, f.metrics.operations[0].outcome)
		f.outbox.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("store errors become transaction errors", func(t *testing.T) {
		f := newEngineFixture()
		cause := errors.New("connection reset")
		err := f.engine.Run(context.Background(), "delete_receipt", func(context.Context, *ledger.Tx) error {
			return cause
		})

		var txErr *shared.TransactionError
		require.ErrorAs(t, err, &txErr)
		assert.Equal(t, "delete_receipt", txErr.Op)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ledger.OutcomeError, f.metrics.operations[0].outcome)
	})

	t.Run("outbox failure aborts the operation", func(t *testing.T) {
		f := newEngineFixture()
		customer := newCustomer(t, 10)
		f.customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)
		f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)
		f.outbox.On("Write", mock.Anything, mock.Anything).Return(errors.New("outbox table missing"))

		err := f.engine.Run(context.Background(), "create_sale", func(ctx context.Context, tx *ledger.Tx) error {
			_, err := tx.AdjustCustomer(ctx, customer.ID, decimal.NewFromInt(5), ledger.Source{Type: finance.SourceTypeSale, ID: uuid.New()}, finance.EntryActionCharge)
			return err
		})

		var txErr *shared.TransactionError
		assert.ErrorAs(t, err, &txErr)
	})
}

func TestTx_ApplyPayment(t *testing.T) {
	customerID := uuid.New()

	t.Run("within outstanding", func(t *testing.T) {
		f := newEngineFixture()
		sale := newSale(t, customerID, 500, 100)
		f.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()
		f.sales.On("SaveWithLock", mock.Anything, sale).Return(nil).Once()

		err := f.engine.Run(context.Background(), "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
			_, err := tx.ApplyPayment(ctx, sale.ID, decimal.NewFromInt(400))
			return err
		})

		require.NoError(t, err)
		assert.True(t, sale.AmountPaid.Equal(decimal.NewFromInt(500)))
		assert.True(t, sale.IsFullyPaid())
	})

	t.Run("over allocation writes nothing", func(t *testing.T) {
		f := newEngineFixture()
		sale := newSale(t, customerID, 500, 100)
		f.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()

		err := f.engine.Run(context.Background(), "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
			_, err := tx.ApplyPayment(ctx, sale.ID, decimal.NewFromInt(401))
			return err
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, sale.AmountPaid.Equal(decimal.NewFromInt(100)))
		f.sales.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("missing sale", func(t *testing.T) {
		f := newEngineFixture()
		id := uuid.New()
		f.sales.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		err := f.engine.Run(context.Background(), "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
			_, err := tx.ApplyPayment(ctx, id, decimal.NewFromInt(1))
			return err
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTx_RevertPayment(t *testing.T) {
	t.Run("missing sale is skipped with a warning after commit", func(t *testing.T) {
		f := newEngineFixture()
		id := uuid.New()
		f.sales.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		err := f.engine.Run(context.Background(), "delete_receipt", func(ctx context.Context, tx *ledger.Tx) error {
			require.NoError(t, tx.LockSales(ctx, id))
			if err := tx.RevertPayment(ctx, id, decimal.NewFromInt(150), receiptSource()); err != nil {
				return err
			}
			assert.Len(t, tx.Warnings(), 1)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{string(finance.IntegrityMissingObligation)}, f.metrics.warnings)
		f.sales.AssertNumberOfCalls(t, "FindByIDForUpdate", 1)
		f.sales.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("warnings of a rolled back attempt are dropped", func(t *testing.T) {
		f := newEngineFixture()
		id := uuid.New()
		f.sales.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := f.engine.Run(context.Background(), "delete_receipt", func(ctx context.Context, tx *ledger.Tx) error {
			if err := tx.RevertPayment(ctx, id, decimal.NewFromInt(150), receiptSource()); err != nil {
				return err
			}
			return shared.NewValidationError("later step failed")
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, f.metrics.warnings)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		f := newEngineFixture()
		sale := newSale(t, uuid.New(), 500, 50)
		f.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil).Once()
		f.sales.On("SaveWithLock", mock.Anything, sale).Return(nil).Once()

		err := f.engine.Run(context.Background(), "delete_receipt", func(ctx context.Context, tx *ledger.Tx) error {
			return tx.RevertPayment(ctx, sale.ID, decimal.NewFromInt(80), receiptSource())
		})

		require.NoError(t, err)
		assert.True(t, sale.AmountPaid.IsZero())
		assert.Equal(t, []string{string(finance.IntegrityRevertClamped)}, f.metrics.warnings)
	})
}

func TestTx_LockSalesInIDOrder(t *testing.T) {
	f := newEngineFixture()
	a := newSale(t, uuid.New(), 10, 0)
	b := newSale(t, uuid.New(), 10, 0)
	low, high := a, b
	if shared.SortIDs(a.ID, b.ID)[0] != a.ID {
		low, high = b, a
	}
	f.sales.On("FindByIDForUpdate", mock.Anything, low.ID).Return(low, nil).Once()
	f.sales.On("FindByIDForUpdate", mock.Anything, high.ID).Return(high, nil).Once()

	err := f.engine.Run(context.Background(), "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		if err := tx.LockSales(ctx, high.ID, low.ID); err != nil {
			return err
		}
		// cached, no second load
		_, err := tx.Sale(ctx, high.ID)
		return err
	})

	require.NoError(t, err)
	require.Len(t, f.sales.Calls, 2)
	assert.Equal(t, low.ID, f.sales.Calls[0].Arguments.Get(1))
	assert.Equal(t, high.ID, f.sales.Calls[1].Arguments.Get(1))
}

func TestEngine_ReportIntegrityWarnings(t *testing.T) {
	f := newEngineFixture()
	f.engine.ReportIntegrityWarnings(context.Background(), "reconcile", []finance.IntegrityWarning{
		{Kind: finance.IntegrityHolderBalanceMismatch, EntityID: uuid.New()},
		{Kind: finance.IntegrityAmountPaidMismatch, EntityID: uuid.New()},
	})
	assert.Equal(t, []string{"HOLDER_BALANCE_MISMATCH", "AMOUNT_PAID_MISMATCH"}, f.metrics.warnings)
}

func TestEngine_WithClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	engine := ledger.NewEngine(ledger.NewNoOpTransactionScope(ledger.NoOpRepositories{}), nil, ledger.WithClock(func() time.Time { return fixed }))
	assert.Equal(t, fixed, engine.Now())
}
