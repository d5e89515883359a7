package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/domain/shared"
)

// SaleFilter narrows sale listings
type SaleFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	UnpaidOnly bool
	From       *time.Time
	To         *time.Time
}

// SaleRepository is the obligation store used by the ledger engine
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads the sale and locks its row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, error)
	Count(ctx context.Context, filter SaleFilter) (int64, error)
	ExistsByNumber(ctx context.Context, saleNumber string) (bool, error)
	Save(ctx context.Context, sale *Sale) error
	// SaveWithLock persists the sale only if its version has not moved
	SaveWithLock(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseFilter narrows purchase listings
type PurchaseFilter struct {
	shared.Filter
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindAll(ctx context.Context, filter PurchaseFilter) ([]Purchase, error)
	Count(ctx context.Context, filter PurchaseFilter) (int64, error)
	ExistsByNumber(ctx context.Context, purchaseNumber string) (bool, error)
	Save(ctx context.Context, purchase *Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
}
