package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// Messages surfaced to callers
const (
	MsgPaymentExceedsOutstanding = "Payment exceeds outstanding amount"
	MsgAmountMustBePositive      = "Amount must be greater than zero"
)

// Sale is a priced shipment of processed tamarind to a customer. It is the
// obligation receipts are allocated against: TotalAmount is fixed at creation
// and AmountPaid accumulates allocations, 0 <= AmountPaid <= TotalAmount.
type Sale struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	SaleNumber  string
	SaleDate    time.Time
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	Notes       string
}

// NewSale creates a sale with TotalAmount = quantity × rate
func NewSale(customerID uuid.UUID, saleNumber string, saleDate time.Time, quantity, rate decimal.Decimal, notes string) (*Sale, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer is required")
	}
	if saleNumber == "" {
		return nil, shared.NewValidationError("Sale number is required")
	}
	if len(saleNumber) > 50 {
		return nil, shared.NewValidationError("Sale number cannot exceed 50 characters")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewValidationError("Quantity must be greater than zero")
	}
	if !rate.IsPositive() {
		return nil, shared.NewValidationError("Rate must be greater than zero")
	}
	if err := shared.ValidateScale("Quantity", quantity); err != nil {
		return nil, err
	}
	if err := shared.ValidateScale("Rate", rate); err != nil {
		return nil, err
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		SaleNumber:        saleNumber,
		SaleDate:          saleDate,
		Quantity:          quantity,
		Rate:              rate,
		TotalAmount:       quantity.Mul(rate).Round(4),
		AmountPaid:        decimal.Zero,
		Notes:             notes,
	}
	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// Outstanding returns the unpaid part of the sale
func (s *Sale) Outstanding() decimal.Decimal {
	return s.TotalAmount.Sub(s.AmountPaid)
}

// IsFullyPaid returns true if nothing is left to collect
func (s *Sale) IsFullyPaid() bool {
	return !s.Outstanding().IsPositive()
}

// HasPayments returns true if any receipt has been allocated to the sale
func (s *Sale) HasPayments() bool {
	return s.AmountPaid.IsPositive()
}

// ApplyPayment adds amount to AmountPaid. It fails without side effects when
// amount is not positive or exceeds the outstanding amount.
func (s *Sale) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError(MsgAmountMustBePositive)
	}
	if amount.GreaterThan(s.Outstanding()) {
		return shared.NewValidationError(MsgPaymentExceedsOutstanding)
	}

	s.AmountPaid = s.AmountPaid.Add(amount)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// RevertPayment subtracts amount from AmountPaid, clamped at zero. It returns
// the amount actually reverted, which is less than amount only when the
// stored history had already drifted.
func (s *Sale) RevertPayment(amount decimal.Decimal) decimal.Decimal {
	reverted := decimal.Min(amount, s.AmountPaid)
	if reverted.IsNegative() {
		reverted = decimal.Zero
	}
	s.AmountPaid = s.AmountPaid.Sub(reverted)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return reverted
}

// CanDelete returns an error if the sale still carries allocated payments
func (s *Sale) CanDelete() error {
	if s.HasPayments() {
		return shared.NewValidationError("Cannot delete a sale that has receipts allocated to it")
	}
	return nil
}
