package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/shared"
)

// ReceiptService records, edits and deletes customer receipts through the
// ledger engine so sale.amountPaid and customer balances move with them.
type ReceiptService struct {
	engine   *ledger.Engine
	receipts finance.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(engine *ledger.Engine, receipts finance.ReceiptRepository) *ReceiptService {
	return &ReceiptService{engine: engine, receipts: receipts}
}

// CreateReceipt applies every allocation in order, stores the receipt and
// lowers the customer's balance by the receipt total, all in one transaction.
func (s *ReceiptService) CreateReceipt(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	allocations := toAllocationInputs(req.Allocations)
	if _, err := finance.ValidateAllocations(allocations); err != nil {
		return nil, err
	}
	details := toDetails(req.PaymentDate, req.PaymentMode, req.ReferenceNo, req.Notes)

	var created *finance.CustomerReceipt
	err := s.engine.Run(ctx, "create_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		receipt, err := finance.NewCustomerReceipt(req.CustomerID, allocations, details)
		if err != nil {
			return err
		}
		if err := tx.LockCustomers(ctx, receipt.CustomerID); err != nil {
			return err
		}
		if err := tx.LockSales(ctx, receipt.SaleIDs()...); err != nil {
			return err
		}
		if err := applyReceipt(ctx, tx, receipt); err != nil {
			return err
		}
		tx.Track(receipt)
		created = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToReceiptResponse(created)
	return &resp, nil
}

// UpdateReceipt reverts the stored receipt's effects and applies the new
// allocations, possibly against a different customer. Both phases share one
// transaction: if the new allocations are rejected the revert is rolled back too.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, id uuid.UUID, req UpdateReceiptRequest) (*ReceiptResponse, error) {
	allocations := toAllocationInputs(req.Allocations)
	if _, err := finance.ValidateAllocations(allocations); err != nil {
		return nil, err
	}
	details := toDetails(req.PaymentDate, req.PaymentMode, req.ReferenceNo, req.Notes)

	var updated *finance.CustomerReceipt
	err := s.engine.Run(ctx, "update_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		receipt, err := lockReceipt(ctx, tx, id)
		if err != nil {
			return err
		}

		saleIDs := receipt.SaleIDs()
		for _, a := range allocations {
			saleIDs = append(saleIDs, a.SaleID)
		}
		if err := tx.LockCustomers(ctx, receipt.CustomerID, req.CustomerID); err != nil {
			return err
		}
		if err := tx.LockSales(ctx, saleIDs...); err != nil {
			return err
		}

		if err := revertReceipt(ctx, tx, receipt); err != nil {
			return err
		}
		if err := receipt.Replace(req.CustomerID, allocations, details); err != nil {
			return err
		}
		if err := applyReceipt(ctx, tx, receipt); err != nil {
			return err
		}
		tx.Track(receipt)
		updated = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToReceiptResponse(updated)
	return &resp, nil
}

// DeleteReceipt reverts the receipt's effects and soft-deletes it
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	return s.engine.Run(ctx, "delete_receipt", func(ctx context.Context, tx *ledger.Tx) error {
		receipt, err := lockReceipt(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.LockCustomers(ctx, receipt.CustomerID); err != nil {
			return err
		}
		if err := tx.LockSales(ctx, receipt.SaleIDs()...); err != nil {
			return err
		}
		if err := revertReceipt(ctx, tx, receipt); err != nil {
			return err
		}

		now := s.engine.Now()
		if err := receipt.MarkDeleted(now); err != nil {
			return err
		}
		if err := tx.Repos().ReceiptRepo().SoftDelete(ctx, receipt.ID, now); err != nil {
			return fmt.Errorf("soft delete receipt: %w", err)
		}
		tx.Track(receipt)
		return nil
	})
}

// GetReceipt returns an active receipt
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Receipt", id)
		}
		return nil, err
	}
	resp := ToReceiptResponse(receipt)
	return &resp, nil
}

// ListReceipts returns active receipts matching the filter and the total count
func (s *ReceiptService) ListReceipts(ctx context.Context, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "payment_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := finance.ReceiptFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		CustomerID: filter.CustomerID,
		SaleID:     filter.SaleID,
		From:       filter.From,
		To:         filter.To,
	}
	if filter.PaymentMode != "" {
		mode := finance.PaymentMode(strings.ToUpper(filter.PaymentMode))
		domainFilter.PaymentMode = &mode
	}

	receipts, err := s.receipts.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receipts.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		items[i] = ToReceiptResponse(&receipts[i])
	}
	return items, total, nil
}

func lockReceipt(ctx context.Context, tx *ledger.Tx, id uuid.UUID) (*finance.CustomerReceipt, error) {
	receipt, err := tx.Repos().ReceiptRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Receipt", id)
		}
		return nil, fmt.Errorf("load receipt %s: %w", id, err)
	}
	return receipt, nil
}

// applyReceipt applies each allocation in line order, saves the receipt and
// charges the total against the customer's balance.
func applyReceipt(ctx context.Context, tx *ledger.Tx, receipt *finance.CustomerReceipt) error {
	for _, a := range receipt.Allocations {
		sale, err := tx.Sale(ctx, a.SaleID)
		if err != nil {
			return err
		}
		if sale.CustomerID != receipt.CustomerID {
			return shared.NewValidationError(fmt.Sprintf("Sale %s does not belong to the receipt's customer", sale.SaleNumber))
		}
		if _, err := tx.ApplyPayment(ctx, a.SaleID, a.Amount); err != nil {
			return err
		}
	}
	if err := tx.Repos().ReceiptRepo().Save(ctx, receipt); err != nil {
		return fmt.Errorf("save receipt: %w", err)
	}
	source := ledger.Source{Type: finance.SourceTypeReceipt, ID: receipt.ID}
	if _, err := tx.AdjustCustomer(ctx, receipt.CustomerID, receipt.TotalAmount.Neg(), source, finance.EntryActionApply); err != nil {
		return err
	}
	return nil
}

// revertReceipt undoes every allocation of the stored receipt and gives the
// total back to the customer it was originally charged against.
func revertReceipt(ctx context.Context, tx *ledger.Tx, receipt *finance.CustomerReceipt) error {
	source := ledger.Source{Type: finance.SourceTypeReceipt, ID: receipt.ID}
	for _, a := range receipt.Allocations {
		if err := tx.RevertPayment(ctx, a.SaleID, a.Amount, source); err != nil {
			return err
		}
	}
	if _, err := tx.AdjustCustomer(ctx, receipt.CustomerID, receipt.TotalAmount, source, finance.EntryActionRevert); err != nil {
		return err
	}
	return nil
}
