package finance_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/trade"
	"github.com/tamarind/backend/tests/testutil"
	"go.uber.org/zap"
)

type repos struct {
	customers *testutil.MockCustomerRepository
	suppliers *testutil.MockSupplierRepository
	sales     *testutil.MockSaleRepository
	receipts  *testutil.MockReceiptRepository
	payments  *testutil.MockSupplierPaymentRepository
	entries   *testutil.MockLedgerEntryRepository
	outbox    *testutil.MockOutboxWriter
	engine    *ledger.Engine
}

func newRepos() *repos {
	r := &repos{
		customers: new(testutil.MockCustomerRepository),
		suppliers: new(testutil.MockSupplierRepository),
		sales:     new(testutil.MockSaleRepository),
		receipts:  new(testutil.MockReceiptRepository),
		payments:  new(testutil.MockSupplierPaymentRepository),
		entries:   new(testutil.MockLedgerEntryRepository),
		outbox:    new(testutil.MockOutboxWriter),
	}
	scope := ledger.NewNoOpTransactionScope(ledger.NoOpRepositories{
		Customers:        r.customers,
		Suppliers:        r.suppliers,
		Sales:            r.sales,
		Receipts:         r.receipts,
		SupplierPayments: r.payments,
		LedgerEntries:    r.entries,
		Outbox:           r.outbox,
	})
	r.engine = ledger.NewEngine(scope, zap.NewNop())
	return r
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func customerWithBalance(t *testing.T, code string, balance int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.Profile{Code: code, Name: "Customer " + code}, dec(balance))
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func supplierWithBalance(t *testing.T, code string, balance int64) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(partner.Profile{Code: code, Name: "Supplier " + code}, dec(balance))
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func saleFor(t *testing.T, customerID uuid.UUID, number string, total, paid int64) *trade.Sale {
	t.Helper()
	s, err := trade.NewSale(customerID, number, time.Now(), dec(total), dec(1), "")
	require.NoError(t, err)
	s.AmountPaid = dec(paid)
	s.ClearDomainEvents()
	return s
}

func storedReceipt(t *testing.T, customerID uuid.UUID, allocations ...finance.AllocationInput) *finance.CustomerReceipt {
	t.Helper()
	r, err := finance.NewCustomerReceipt(customerID, allocations, finance.ReceiptDetails{})
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}
