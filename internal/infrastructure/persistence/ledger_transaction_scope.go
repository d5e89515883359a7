package persistence

import (
	"context"

	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// TxEventPublisher writes domain events to the outbox using the caller's transaction
type TxEventPublisher interface {
	PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error
}

// GormTransactionScope implements ledger.TransactionScope using GORM transactions.
// Every repository and the outbox writer share the same *gorm.DB transaction.
type GormTransactionScope struct {
	db        *gorm.DB
	publisher TxEventPublisher
}

// NewGormTransactionScope creates a new GormTransactionScope. A nil publisher
// drops outbox writes.
func NewGormTransactionScope(db *gorm.DB, publisher TxEventPublisher) *GormTransactionScope {
	return &GormTransactionScope{db: db, publisher: publisher}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, publisher: s.publisher})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx        *gorm.DB
	publisher TxEventPublisher
}

func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseRepo() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReceiptRepo() finance.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) SupplierPaymentRepo() finance.SupplierPaymentRepository {
	return NewGormSupplierPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) LedgerEntryRepo() finance.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// Outbox returns a writer bound to the current transaction
func (r *gormTransactionalRepositories) Outbox() ledger.OutboxWriter {
	return txOutbox{tx: r.tx, publisher: r.publisher}
}

type txOutbox struct {
	tx        *gorm.DB
	publisher TxEventPublisher
}

func (o txOutbox) Write(ctx context.Context, events ...shared.DomainEvent) error {
	if o.publisher == nil || len(events) == 0 {
		return nil
	}
	return o.publisher.PublishWithTx(ctx, o.tx, events...)
}

// Ensure GormTransactionScope implements TransactionScope
var _ ledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ ledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
