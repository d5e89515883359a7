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

// SupplierPaymentService records payments made to suppliers. Unlike receipts
// the supplier is its own obligation, so payments move only the supplier's
// balance and are never bounded by it.
type SupplierPaymentService struct {
	engine   *ledger.Engine
	payments finance.SupplierPaymentRepository
}

// NewSupplierPaymentService creates a new SupplierPaymentService
func NewSupplierPaymentService(engine *ledger.Engine, payments finance.SupplierPaymentRepository) *SupplierPaymentService {
	return &SupplierPaymentService{engine: engine, payments: payments}
}

// CreateSupplierPayment stores the payment and lowers the supplier's balance by its amount
func (s *SupplierPaymentService) CreateSupplierPayment(ctx context.Context, req CreateSupplierPaymentRequest) (*SupplierPaymentResponse, error) {
	details := toDetails(req.PaymentDate, req.PaymentMode, req.ReferenceNo, req.Notes)

	var created *finance.SupplierPayment
	err := s.engine.Run(ctx, "create_supplier_payment", func(ctx context.Context, tx *ledger.Tx) error {
		payment, err := finance.NewSupplierPayment(req.SupplierID, req.Amount, details)
		if err != nil {
			return err
		}
		if err := tx.LockSuppliers(ctx, payment.SupplierID); err != nil {
			return err
		}
		if err := tx.Repos().SupplierPaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("save supplier payment: %w", err)
		}
		source := ledger.Source{Type: finance.SourceTypeSupplierPayment, ID: payment.ID}
		if _, err := tx.AdjustSupplier(ctx, payment.SupplierID, payment.Amount.Neg(), source, finance.EntryActionApply); err != nil {
			return err
		}
		tx.Track(payment)
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToSupplierPaymentResponse(created)
	return &resp, nil
}

// UpdateSupplierPayment edits a payment. When the supplier changes the old
// amount goes back to the old supplier and the new amount is taken from the
// new one; otherwise only the signed difference is applied.
func (s *SupplierPaymentService) UpdateSupplierPayment(ctx context.Context, id uuid.UUID, req UpdateSupplierPaymentRequest) (*SupplierPaymentResponse, error) {
	details := toDetails(req.PaymentDate, req.PaymentMode, req.ReferenceNo, req.Notes)

	var updated *finance.SupplierPayment
	err := s.engine.Run(ctx, "update_supplier_payment", func(ctx context.Context, tx *ledger.Tx) error {
		payment, err := lockSupplierPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		oldSupplier, oldAmount := payment.SupplierID, payment.Amount

		if err := tx.LockSuppliers(ctx, oldSupplier, req.SupplierID); err != nil {
			return err
		}
		if err := payment.Replace(req.SupplierID, req.Amount, details); err != nil {
			return err
		}

		source := ledger.Source{Type: finance.SourceTypeSupplierPayment, ID: payment.ID}
		if oldSupplier != payment.SupplierID {
			if _, err := tx.AdjustSupplier(ctx, oldSupplier, oldAmount, source, finance.EntryActionRevert); err != nil {
				return err
			}
			if _, err := tx.AdjustSupplier(ctx, payment.SupplierID, payment.Amount.Neg(), source, finance.EntryActionApply); err != nil {
				return err
			}
		} else {
			delta := payment.Amount.Sub(oldAmount)
			if _, err := tx.AdjustSupplier(ctx, payment.SupplierID, delta.Neg(), source, finance.EntryActionApply); err != nil {
				return err
			}
		}

		if err := tx.Repos().SupplierPaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("save supplier payment: %w", err)
		}
		tx.Track(payment)
		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToSupplierPaymentResponse(updated)
	return &resp, nil
}

// DeleteSupplierPayment restores the amount to the supplier and removes the payment
func (s *SupplierPaymentService) DeleteSupplierPayment(ctx context.Context, id uuid.UUID) error {
	return s.engine.Run(ctx, "delete_supplier_payment", func(ctx context.Context, tx *ledger.Tx) error {
		payment, err := lockSupplierPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.LockSuppliers(ctx, payment.SupplierID); err != nil {
			return err
		}
		source := ledger.Source{Type: finance.SourceTypeSupplierPayment, ID: payment.ID}
		if _, err := tx.AdjustSupplier(ctx, payment.SupplierID, payment.Amount, source, finance.EntryActionRevert); err != nil {
			return err
		}
		if err := tx.Repos().SupplierPaymentRepo().Delete(ctx, payment.ID); err != nil {
			return fmt.Errorf("delete supplier payment: %w", err)
		}
		payment.AddDomainEvent(finance.NewSupplierPaymentDeletedEvent(payment))
		tx.Track(payment)
		return nil
	})
}

// GetSupplierPayment returns a supplier payment by id
func (s *SupplierPaymentService) GetSupplierPayment(ctx context.Context, id uuid.UUID) (*SupplierPaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Supplier payment", id)
		}
		return nil, err
	}
	resp := ToSupplierPaymentResponse(payment)
	return &resp, nil
}

// ListSupplierPayments returns payments matching the filter and the total count
func (s *SupplierPaymentService) ListSupplierPayments(ctx context.Context, filter SupplierPaymentListFilter) ([]SupplierPaymentResponse, int64, error) {
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

	domainFilter := finance.SupplierPaymentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		SupplierID: filter.SupplierID,
		From:       filter.From,
		To:         filter.To,
	}
	if filter.PaymentMode != "" {
		mode := finance.PaymentMode(strings.ToUpper(filter.PaymentMode))
		domainFilter.PaymentMode = &mode
	}

	payments, err := s.payments.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payments.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]SupplierPaymentResponse, len(payments))
	for i := range payments {
		items[i] = ToSupplierPaymentResponse(&payments[i])
	}
	return items, total, nil
}

func lockSupplierPayment(ctx context.Context, tx *ledger.Tx, id uuid.UUID) (*finance.SupplierPayment, error) {
	payment, err := tx.Repos().SupplierPaymentRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Supplier payment", id)
		}
		return nil, fmt.Errorf("load supplier payment %s: %w", id, err)
	}
	return payment, nil
}
