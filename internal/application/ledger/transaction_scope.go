package ledger

import (
	"context"

	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to every store a ledger
// operation touches. All repository calls made inside fn belong to one
// database transaction that is committed when fn returns nil and rolled back
// otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction.
//
// Holder balances (CustomerRepo, SupplierRepo) and sale.amountPaid (SaleRepo)
// are the shared mutable state. Rows read through FindByIDForUpdate stay locked
// until the transaction ends.
type TransactionalRepositories interface {
	CustomerRepo() partner.CustomerRepository
	SupplierRepo() partner.SupplierRepository
	SaleRepo() trade.SaleRepository
	PurchaseRepo() trade.PurchaseRepository
	ReceiptRepo() finance.ReceiptRepository
	SupplierPaymentRepo() finance.SupplierPaymentRepository
	LedgerEntryRepo() finance.LedgerEntryRepository
	// Outbox stores domain events in the same transaction
	Outbox() OutboxWriter
}

// OutboxWriter persists domain events for asynchronous delivery
type OutboxWriter interface {
	Write(ctx context.Context, events ...shared.DomainEvent) error
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// It is used in unit tests where the repositories are mocks.
type NoOpTransactionScope struct {
	customerRepo        partner.CustomerRepository
	supplierRepo        partner.SupplierRepository
	saleRepo            trade.SaleRepository
	purchaseRepo        trade.PurchaseRepository
	receiptRepo         finance.ReceiptRepository
	supplierPaymentRepo finance.SupplierPaymentRepository
	ledgerEntryRepo     finance.LedgerEntryRepository
	outbox              OutboxWriter
}

// NoOpRepositories groups the repositories handed to NewNoOpTransactionScope
type NoOpRepositories struct {
	Customers        partner.CustomerRepository
	Suppliers        partner.SupplierRepository
	Sales            trade.SaleRepository
	Purchases        trade.PurchaseRepository
	Receipts         finance.ReceiptRepository
	SupplierPayments finance.SupplierPaymentRepository
	LedgerEntries    finance.LedgerEntryRepository
	Outbox           OutboxWriter
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(r NoOpRepositories) *NoOpTransactionScope {
	outbox := r.Outbox
	if outbox == nil {
		outbox = discardOutbox{}
	}
	return &NoOpTransactionScope{
		customerRepo:        r.Customers,
		supplierRepo:        r.Suppliers,
		saleRepo:            r.Sales,
		purchaseRepo:        r.Purchases,
		receiptRepo:         r.Receipts,
		supplierPaymentRepo: r.SupplierPayments,
		ledgerEntryRepo:     r.LedgerEntries,
		outbox:              outbox,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository { return s.supplierRepo }
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository           { return s.saleRepo }
func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseRepository   { return s.purchaseRepo }
func (s *NoOpTransactionScope) ReceiptRepo() finance.ReceiptRepository   { return s.receiptRepo }
func (s *NoOpTransactionScope) SupplierPaymentRepo() finance.SupplierPaymentRepository {
	return s.supplierPaymentRepo
}
func (s *NoOpTransactionScope) LedgerEntryRepo() finance.LedgerEntryRepository {
	return s.ledgerEntryRepo
}
func (s *NoOpTransactionScope) Outbox() OutboxWriter { return s.outbox }

type discardOutbox struct{}

func (discardOutbox) Write(context.Context, ...shared.DomainEvent) error { return nil }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
