package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// SupplierPayment records money paid to a supplier. The supplier is both the
// holder and the obligation, so there is no allocation list.
type SupplierPayment struct {
	shared.BaseAggregateRoot
	SupplierID  uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	PaymentMode PaymentMode
	ReferenceNo string
	Notes       string
}

// NewSupplierPayment validates and builds a payment
func NewSupplierPayment(supplierID uuid.UUID, amount decimal.Decimal, details ReceiptDetails) (*SupplierPayment, error) {
	p := &SupplierPayment{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := p.assign(supplierID, amount, details); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewSupplierPaymentRecordedEvent(p))
	return p, nil
}

// Replace overwrites supplier, amount and details
func (p *SupplierPayment) Replace(supplierID uuid.UUID, amount decimal.Decimal, details ReceiptDetails) error {
	previousSupplier := p.SupplierID
	previousAmount := p.Amount
	if err := p.assign(supplierID, amount, details); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewSupplierPaymentUpdatedEvent(p, previousSupplier, previousAmount))
	return nil
}

func (p *SupplierPayment) assign(supplierID uuid.UUID, amount decimal.Decimal, details ReceiptDetails) error {
	if supplierID == uuid.Nil {
		return shared.NewValidationError("Supplier is required")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("Amount must be greater than zero")
	}
	if err := shared.ValidateScale("Amount", amount); err != nil {
		return err
	}
	details, err := normalizeDetails(details)
	if err != nil {
		return err
	}
	p.SupplierID = supplierID
	p.Amount = amount
	p.PaymentDate = details.PaymentDate
	p.PaymentMode = details.PaymentMode
	p.ReferenceNo = details.ReferenceNo
	p.Notes = details.Notes
	return nil
}
