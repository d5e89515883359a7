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

// SaleService records sales and charges them to the customer's balance
type SaleService struct {
	engine   *ledger.Engine
	saleRepo trade.SaleRepository
}

// NewSaleService creates a new SaleService
func NewSaleService(engine *ledger.Engine, saleRepo trade.SaleRepository) *SaleService {
	return &SaleService{
		engine:   engine,
		saleRepo: saleRepo,
	}
}

// Create stores the sale and raises the customer's outstanding balance by its total
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	exists, err := s.saleRepo.ExistsByNumber(ctx, req.SaleNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Sale with this number already exists")
	}

	var created *trade.Sale
	err = s.engine.Run(ctx, "create_sale", func(ctx context.Context, tx *ledger.Tx) error {
		sale, err := trade.NewSale(req.CustomerID, req.SaleNumber, dateOrZero(req.SaleDate), req.Quantity, req.Rate, req.Notes)
		if err != nil {
			return err
		}
		if err := tx.LockCustomers(ctx, sale.CustomerID); err != nil {
			return err
		}
		if err := tx.Repos().SaleRepo().Save(ctx, sale); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "Sale with this number already exists")
			}
			return fmt.Errorf("save sale: %w", err)
		}
		source := ledger.Source{Type: finance.SourceTypeSale, ID: sale.ID}
		if _, err := tx.AdjustCustomer(ctx, sale.CustomerID, sale.TotalAmount, source, finance.EntryActionCharge); err != nil {
			return err
		}
		tx.Track(sale)
		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(created)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Sale", id)
		}
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sale_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := trade.SaleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CustomerID: filter.CustomerID,
		UnpaidOnly: filter.UnpaidOnly,
		From:       filter.From,
		To:         filter.To,
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]SaleResponse, len(sales))
	for i := range sales {
		items[i] = ToSaleResponse(&sales[i])
	}
	return items, total, nil
}

// Delete removes an unpaid sale and takes its total back off the customer's
// balance. A sale with receipts allocated to it cannot be deleted.
func (s *SaleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.engine.Run(ctx, "delete_sale", func(ctx context.Context, tx *ledger.Tx) error {
		// The customer is locked before the sale, so read the owner first.
		current, err := tx.Repos().SaleRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Sale", id)
			}
			return fmt.Errorf("load sale %s: %w", id, err)
		}
		if err := tx.LockCustomers(ctx, current.CustomerID); err != nil {
			return err
		}
		sale, err := tx.Sale(ctx, id)
		if err != nil {
			return err
		}
		if err := sale.CanDelete(); err != nil {
			return err
		}

		if err := tx.Repos().SaleRepo().Delete(ctx, sale.ID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		source := ledger.Source{Type: finance.SourceTypeSale, ID: sale.ID}
		if _, err := tx.AdjustCustomer(ctx, sale.CustomerID, sale.TotalAmount.Neg(), source, finance.EntryActionRevert); err != nil {
			return err
		}
		sale.AddDomainEvent(trade.NewSaleDeletedEvent(sale))
		tx.Track(sale)
		return nil
	})
}
