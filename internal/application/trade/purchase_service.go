package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
)

// PurchaseService records purchase lots and charges them to the supplier
type PurchaseService struct {
	engine       *ledger.Engine
	purchaseRepo trade.PurchaseRepository
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(engine *ledger.Engine, purchaseRepo trade.PurchaseRepository) *PurchaseService {
	return &PurchaseService{
		engine:       engine,
		purchaseRepo: purchaseRepo,
	}
}

// Create computes weight loss and total, stores the purchase and raises the
// supplier's outstanding balance by the total
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	exists, err := s.purchaseRepo.ExistsByNumber(ctx, req.PurchaseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Purchase with this number already exists")
	}

	var created *trade.Purchase
	err = s.engine.Run(ctx, "create_purchase", func(ctx context.Context, tx *ledger.Tx) error {
		purchase, err := trade.NewPurchase(req.SupplierID, req.PurchaseNumber, dateOrZero(req.PurchaseDate),
			req.GrossWeight, req.NetWeight, req.Rate, req.Notes)
		if err != nil {
			return err
		}
		if err := tx.LockSuppliers(ctx, purchase.SupplierID); err != nil {
			return err
		}
		if err := tx.Repos().PurchaseRepo().Save(ctx, purchase); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "Purchase with this number already exists")
			}
			return fmt.Errorf("save purchase: %w", err)
		}
		source := ledger.Source{Type: finance.SourceTypePurchase, ID: purchase.ID}
		if _, err := tx.AdjustSupplier(ctx, purchase.SupplierID, purchase.TotalAmount, source, finance.EntryActionCharge); err != nil {
			return err
		}
		tx.Track(purchase)
		created = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(created)
	return &response, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Purchase", id)
		}
		return nil, err
	}

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "purchase_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := trade.PurchaseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		SupplierID: filter.SupplierID,
		From:       filter.From,
		To:         filter.To,
	}

	purchases, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		items[i] = ToPurchaseResponse(&purchases[i])
	}
	return items, total, nil
}

// Delete removes a purchase and takes its total back off the supplier's balance
func (s *PurchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.engine.Run(ctx, "delete_purchase", func(ctx context.Context, tx *ledger.Tx) error {
		current, err := tx.Repos().PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Purchase", id)
			}
			return fmt.Errorf("load purchase %s: %w", id, err)
		}
		if err := tx.LockSuppliers(ctx, current.SupplierID); err != nil {
			return err
		}
		purchase, err := tx.Repos().PurchaseRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Purchase", id)
			}
			return fmt.Errorf("lock purchase %s: %w", id, err)
		}

		if err := tx.Repos().PurchaseRepo().Delete(ctx, purchase.ID); err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}
		source := ledger.Source{Type: finance.SourceTypePurchase, ID: purchase.ID}
		if _, err := tx.AdjustSupplier(ctx, purchase.SupplierID, purchase.TotalAmount.Neg(), source, finance.EntryActionRevert); err != nil {
			return err
		}
		purchase.AddDomainEvent(trade.NewPurchaseDeletedEvent(purchase))
		tx.Track(purchase)
		return nil
	})
}
