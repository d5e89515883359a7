package finance_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/application/finance"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/application/trade"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/config"
	"github.com/tamarind/backend/internal/infrastructure/event"
	"github.com/tamarind/backend/internal/infrastructure/persistence"
	"github.com/tamarind/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ledgerStack runs the services against a migrated SQLite database through
// the real transaction scope and outbox publisher
type ledgerStack struct {
	db       *gorm.DB
	sales    *trade.SaleService
	receipts *finance.ReceiptService
	payments *finance.SupplierPaymentService
	ledger   *finance.LedgerService
}

func newLedgerStack(t *testing.T) *ledgerStack {
	t.Helper()

	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })

	db := database.DB
	publisher := event.NewOutboxPublisher(event.NewLedgerEventSerializer())
	engine := ledger.NewEngine(persistence.NewGormTransactionScope(db, publisher), zap.NewNop())

	return &ledgerStack{
		db:       db,
		sales:    trade.NewSaleService(engine, persistence.NewGormSaleRepository(db)),
		receipts: finance.NewReceiptService(engine, persistence.NewGormReceiptRepository(db)),
		payments: finance.NewSupplierPaymentService(engine, persistence.NewGormSupplierPaymentRepository(db)),
		ledger: finance.NewLedgerService(
			engine,
			persistence.NewGormLedgerEntryRepository(db),
			persistence.NewGormReconciliationReader(db),
			persistence.NewGormCustomerRepository(db),
			persistence.NewGormSupplierRepository(db),
		),
	}
}

func (s *ledgerStack) customer(t *testing.T, code string) uuid.UUID {
	t.Helper()
	c, err := partner.NewCustomer(partner.Profile{Code: code, Name: "Customer " + code}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(s.db).Save(context.Background(), c))
	return c.ID
}

func (s *ledgerStack) supplier(t *testing.T, code string, opening int64) uuid.UUID {
	t.Helper()
	sup, err := partner.NewSupplier(partner.Profile{Code: code, Name: "Supplier " + code}, dec(opening))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormSupplierRepository(s.db).Save(context.Background(), sup))
	return sup.ID
}

func (s *ledgerStack) sale(t *testing.T, customerID uuid.UUID, number string, total int64) uuid.UUID {
	t.Helper()
	resp, err := s.sales.Create(context.Background(), trade.CreateSaleRequest{
		CustomerID: customerID,
		SaleNumber: number,
		Quantity:   dec(total),
		Rate:       dec(1),
	})
	require.NoError(t, err)
	return resp.ID
}

func (s *ledgerStack) customerBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	c, err := persistence.NewGormCustomerRepository(s.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.OutstandingBalance
}

func (s *ledgerStack) supplierBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	sup, err := persistence.NewGormSupplierRepository(s.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return sup.OutstandingBalance
}

func (s *ledgerStack) amountPaid(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	sale, err := persistence.NewGormSaleRepository(s.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return sale.AmountPaid
}

func (s *ledgerStack) requireConsistent(t *testing.T) {
	t.Helper()
	report, err := s.ledger.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent(), "warnings: %+v", report.Warnings)
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %d, got %s", want, got)
}

func TestReceiptLifecycle_CreateUpdateDelete(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	customerID := s.customer(t, "C-1")
	saleID := s.sale(t, customerID, "S-1", 1000)
	assertAmount(t, 1000, s.customerBalance(t, customerID))
	assertAmount(t, 0, s.amountPaid(t, saleID))

	created, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
		CustomerID:  customerID,
		Allocations: []finance.AllocationRequest{{SaleID: saleID, Amount: dec(400)}},
	})
	require.NoError(t, err)
	assertAmount(t, 400, created.TotalAmount)
	assertAmount(t, 400, s.amountPaid(t, saleID))
	assertAmount(t, 600, s.customerBalance(t, customerID))
	s.requireConsistent(t)

	updated, err := s.receipts.UpdateReceipt(ctx, created.ID, finance.UpdateReceiptRequest{
		CustomerID:  customerID,
		Allocations: []finance.AllocationRequest{{SaleID: saleID, Amount: dec(250)}},
	})
	require.NoError(t, err)
	assertAmount(t, 250, updated.TotalAmount)
	assertAmount(t, 250, s.amountPaid(t, saleID))
	assertAmount(t, 750, s.customerBalance(t, customerID))
	s.requireConsistent(t)

	require.NoError(t, s.receipts.DeleteReceipt(ctx, created.ID))
	assertAmount(t, 0, s.amountPaid(t, saleID))
	assertAmount(t, 1000, s.customerBalance(t, customerID))
	s.requireConsistent(t)

	var deleted bool
	require.NoError(t, s.db.Raw("SELECT is_deleted FROM customer_receipts WHERE id = ?", created.ID).Scan(&deleted).Error)
	assert.True(t, deleted)

	list, total, err := s.receipts.ListReceipts(ctx, finance.ReceiptListFilter{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, err = s.receipts.GetReceipt(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReceipt_AllocationsSumToTotal(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	customerID := s.customer(t, "C-1")
	first := s.sale(t, customerID, "S-1", 500)
	second := s.sale(t, customerID, "S-2", 300)
	third := s.sale(t, customerID, "S-3", 200)

	created, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
		CustomerID: customerID,
		Allocations: []finance.AllocationRequest{
			{SaleID: first, Amount: dec(120)},
			{SaleID: second, Amount: dec(300)},
		},
	})
	require.NoError(t, err)

	sum := func(r *finance.ReceiptResponse) decimal.Decimal {
		total := decimal.Zero
		for _, a := range r.Allocations {
			total = total.Add(a.Amount)
		}
		return total
	}
	assert.True(t, sum(created).Equal(created.TotalAmount))
	assertAmount(t, 420, created.TotalAmount)

	updated, err := s.receipts.UpdateReceipt(ctx, created.ID, finance.UpdateReceiptRequest{
		CustomerID: customerID,
		Allocations: []finance.AllocationRequest{
			{SaleID: third, Amount: dec(200)},
			{SaleID: first, Amount: dec(50)},
		},
	})
	require.NoError(t, err)
	assert.True(t, sum(updated).Equal(updated.TotalAmount))
	assertAmount(t, 250, updated.TotalAmount)

	assertAmount(t, 50, s.amountPaid(t, first))
	assertAmount(t, 0, s.amountPaid(t, second))
	assertAmount(t, 200, s.amountPaid(t, third))
	assertAmount(t, 750, s.customerBalance(t, customerID))
	s.requireConsistent(t)
}

func TestReceipt_RejectedWithoutSideEffects(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	customerID := s.customer(t, "C-1")
	saleID := s.sale(t, customerID, "S-1", 1000)

	var outboxBefore int64
	require.NoError(t, s.db.Model(&models.OutboxEntryModel{}).Count(&outboxBefore).Error)

	t.Run("empty allocations", func(t *testing.T) {
		_, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{CustomerID: customerID})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("allocation over outstanding", func(t *testing.T) {
		_, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
			CustomerID:  customerID,
			Allocations: []finance.AllocationRequest{{SaleID: saleID, Amount: dec(1001)}},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("second allocation over outstanding rolls back the first", func(t *testing.T) {
		other := s.sale(t, customerID, "S-2", 100)
		require.NoError(t, s.db.Model(&models.OutboxEntryModel{}).Count(&outboxBefore).Error)

		_, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
			CustomerID: customerID,
			Allocations: []finance.AllocationRequest{
				{SaleID: saleID, Amount: dec(400)},
				{SaleID: other, Amount: dec(150)},
			},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		assertAmount(t, 0, s.amountPaid(t, other))
	})

	assertAmount(t, 0, s.amountPaid(t, saleID))
	assertAmount(t, 1100, s.customerBalance(t, customerID))

	var receipts, outboxAfter int64
	require.NoError(t, s.db.Table("customer_receipts").Count(&receipts).Error)
	require.NoError(t, s.db.Model(&models.OutboxEntryModel{}).Count(&outboxAfter).Error)
	assert.Zero(t, receipts)
	assert.Equal(t, outboxBefore, outboxAfter)
	s.requireConsistent(t)
}

func TestReceipt_RevertRoundTrip(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	customerID := s.customer(t, "C-1")
	saleID := s.sale(t, customerID, "S-1", 1000)

	var ids []uuid.UUID
	for _, amount := range []int64{100, 250, 75} {
		r, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
			CustomerID:  customerID,
			Allocations: []finance.AllocationRequest{{SaleID: saleID, Amount: dec(amount)}},
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	assertAmount(t, 425, s.amountPaid(t, saleID))

	// delete out of creation order
	for _, i := range []int{1, 0, 2} {
		require.NoError(t, s.receipts.DeleteReceipt(ctx, ids[i]))
	}
	assertAmount(t, 0, s.amountPaid(t, saleID))
	assertAmount(t, 1000, s.customerBalance(t, customerID))
	s.requireConsistent(t)
}

func TestReceipt_RejectedUpdateRollsBackRevert(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	customerID := s.customer(t, "C-1")
	saleID := s.sale(t, customerID, "S-1", 1000)
	receipt, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
		CustomerID:  customerID,
		Allocations: []finance.AllocationRequest{{SaleID: saleID, Amount: dec(400)}},
	})
	require.NoError(t, err)
	assertAmount(t, 400, s.amountPaid(t, saleID))
	assertAmount(t, 600, s.customerBalance(t, customerID))

	var entriesBefore, outboxBefore int64
	require.NoError(t, s.db.Table("ledger_entries").Count(&entriesBefore).Error)
	require.NoError(t, s.db.Model(&models.OutboxEntryModel{}).Count(&outboxBefore).Error)

	// The old allocation is reverted before the new one is applied, so the
	// failure comes after the revert has run inside the transaction.
	_, err = s.receipts.UpdateReceipt(ctx, receipt.ID, finance.UpdateReceiptRequest{
		CustomerID:  customerID,
		Allocations: []finance.AllocationRequest{{SaleID: saleID, Amount: dec(1001)}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	assertAmount(t, 400, s.amountPaid(t, saleID))
	assertAmount(t, 600, s.customerBalance(t, customerID))

	stored, err := s.receipts.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	require.Len(t, stored.Allocations, 1)
	assert.True(t, stored.Allocations[0].Amount.Equal(dec(400)))
	assert.Equal(t, receipt.Version, stored.Version)

	var entriesAfter, outboxAfter int64
	require.NoError(t, s.db.Table("ledger_entries").Count(&entriesAfter).Error)
	require.NoError(t, s.db.Model(&models.OutboxEntryModel{}).Count(&outboxAfter).Error)
	assert.Equal(t, entriesBefore, entriesAfter)
	assert.Equal(t, outboxBefore, outboxAfter)
	s.requireConsistent(t)
}

func TestReceipt_UpdateMovesBetweenCustomers(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	first := s.customer(t, "C-1")
	second := s.customer(t, "C-2")
	firstSale := s.sale(t, first, "S-1", 500)
	secondSale := s.sale(t, second, "S-2", 800)

	r, err := s.receipts.CreateReceipt(ctx, finance.CreateReceiptRequest{
		CustomerID:  first,
		Allocations: []finance.AllocationRequest{{SaleID: firstSale, Amount: dec(300)}},
	})
	require.NoError(t, err)

	_, err = s.receipts.UpdateReceipt(ctx, r.ID, finance.UpdateReceiptRequest{
		CustomerID:  second,
		Allocations: []finance.AllocationRequest{{SaleID: secondSale, Amount: dec(300)}},
	})
	require.NoError(t, err)

	assertAmount(t, 500, s.customerBalance(t, first))
	assertAmount(t, 500, s.customerBalance(t, second))
	assertAmount(t, 0, s.amountPaid(t, firstSale))
	assertAmount(t, 300, s.amountPaid(t, secondSale))
	s.requireConsistent(t)
}

func TestSupplierPayment_HolderChange(t *testing.T) {
	s := newLedgerStack(t)
	ctx := context.Background()

	supplierA := s.supplier(t, "A", 600)
	supplierB := s.supplier(t, "B", 0)

	payment, err := s.payments.CreateSupplierPayment(ctx, finance.CreateSupplierPaymentRequest{
		SupplierID: supplierA,
		Amount:     dec(100),
	})
	require.NoError(t, err)
	assertAmount(t, 500, s.supplierBalance(t, supplierA))
	assertAmount(t, 0, s.supplierBalance(t, supplierB))

	_, err = s.payments.UpdateSupplierPayment(ctx, payment.ID, finance.UpdateSupplierPaymentRequest{
		SupplierID: supplierB,
		Amount:     dec(100),
	})
	require.NoError(t, err)
	assertAmount(t, 600, s.supplierBalance(t, supplierA))
	assertAmount(t, -100, s.supplierBalance(t, supplierB))
	s.requireConsistent(t)

	entries, total, err := s.ledger.GetHolderLedger(ctx, partner.HolderTypeSupplier, supplierB, finance.LedgerListFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assertAmount(t, -100, entries[0].Delta)
	assertAmount(t, -100, entries[0].BalanceAfter)

	var outbox int64
	require.NoError(t, s.db.Model(&models.OutboxEntryModel{}).Count(&outbox).Error)
	assert.Positive(t, outbox)
}
