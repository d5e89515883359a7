package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
)

// ReceiptFilter narrows receipt listings
type ReceiptFilter struct {
	shared.Filter
	CustomerID  *uuid.UUID
	SaleID      *uuid.UUID
	PaymentMode *PaymentMode
	From        *time.Time
	To          *time.Time
}

// ReceiptRepository stores customer receipts. Every read excludes soft-deleted receipts.
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerReceipt, error)
	// FindByIDForUpdate loads an active receipt and locks its row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*CustomerReceipt, error)
	FindAll(ctx context.Context, filter ReceiptFilter) ([]CustomerReceipt, error)
	Count(ctx context.Context, filter ReceiptFilter) (int64, error)
	// Save creates or updates the receipt and replaces its allocation lines
	Save(ctx context.Context, receipt *CustomerReceipt) error
	// SoftDelete flags the receipt deleted at the given time
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SupplierPaymentFilter narrows supplier payment listings
type SupplierPaymentFilter struct {
	shared.Filter
	SupplierID  *uuid.UUID
	PaymentMode *PaymentMode
	From        *time.Time
	To          *time.Time
}

// SupplierPaymentRepository stores supplier payments
type SupplierPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierPayment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SupplierPayment, error)
	FindAll(ctx context.Context, filter SupplierPaymentFilter) ([]SupplierPayment, error)
	Count(ctx context.Context, filter SupplierPaymentFilter) (int64, error)
	Save(ctx context.Context, payment *SupplierPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerEntryRepository appends and reads holder balance journals
type LedgerEntryRepository interface {
	Append(ctx context.Context, entries ...*LedgerEntry) error
	FindByHolder(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)
	CountByHolder(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID) (int64, error)
}

// BalanceSnapshot is a holder's stored balance next to the balance its documents imply
type BalanceSnapshot struct {
	HolderType partner.HolderType
	HolderID   uuid.UUID
	Code       string
	Stored     decimal.Decimal
	Expected   decimal.Decimal
}

// SalePaidSnapshot is a sale's stored amount paid next to its active allocations
type SalePaidSnapshot struct {
	SaleID    uuid.UUID
	Stored    decimal.Decimal
	Allocated decimal.Decimal
}

// ReconciliationReader computes expected balances straight from the documents
type ReconciliationReader interface {
	CustomerBalances(ctx context.Context) ([]BalanceSnapshot, error)
	SupplierBalances(ctx context.Context) ([]BalanceSnapshot, error)
	SalePaidAmounts(ctx context.Context) ([]SalePaidSnapshot, error)
}
