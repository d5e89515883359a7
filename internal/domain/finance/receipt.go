package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// Messages surfaced to callers
const (
	MsgAllocationsRequired = "At least one allocation is required"
	MsgDuplicateAllocation = "Each sale may appear only once in a receipt"
)

// AllocationInput is one requested (sale, amount) pair
type AllocationInput struct {
	SaleID uuid.UUID
	Amount decimal.Decimal
}

// ReceiptAllocation is a receipt line; LineNo preserves request order
type ReceiptAllocation struct {
	ID        uuid.UUID
	ReceiptID uuid.UUID
	SaleID    uuid.UUID
	Amount    decimal.Decimal
	LineNo    int
}

// ReceiptDetails carries the descriptive fields of a receipt
type ReceiptDetails struct {
	PaymentDate time.Time
	PaymentMode PaymentMode
	ReferenceNo string
	Notes       string
}

// CustomerReceipt records money received from a customer and how it was
// spread across that customer's sales. TotalAmount always equals the sum of
// the allocations.
type CustomerReceipt struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	Allocations []ReceiptAllocation
	TotalAmount decimal.Decimal
	PaymentDate time.Time
	PaymentMode PaymentMode
	ReferenceNo string
	Notes       string
	IsDeleted   bool
	DeletedAt   *time.Time
}

// NewCustomerReceipt builds a receipt after validating the allocation list.
// It does not touch any sale; applying the allocations is the ledger engine's job.
func NewCustomerReceipt(customerID uuid.UUID, allocations []AllocationInput, details ReceiptDetails) (*CustomerReceipt, error) {
	r := &CustomerReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := r.assign(customerID, allocations, details); err != nil {
		return nil, err
	}
	r.AddDomainEvent(NewReceiptCreatedEvent(r))
	return r, nil
}

// Replace overwrites holder, allocations and details in place
func (r *CustomerReceipt) Replace(customerID uuid.UUID, allocations []AllocationInput, details ReceiptDetails) error {
	if r.IsDeleted {
		return shared.NewDomainError(shared.CodeInvalidState, "Receipt has been deleted")
	}
	previousCustomer := r.CustomerID
	previousTotal := r.TotalAmount
	if err := r.assign(customerID, allocations, details); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptUpdatedEvent(r, previousCustomer, previousTotal))
	return nil
}

// MarkDeleted soft-deletes the receipt
func (r *CustomerReceipt) MarkDeleted(at time.Time) error {
	if r.IsDeleted {
		return shared.NewDomainError(shared.CodeInvalidState, "Receipt has already been deleted")
	}
	r.IsDeleted = true
	r.DeletedAt = &at
	r.UpdatedAt = at
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptDeletedEvent(r))
	return nil
}

// SaleIDs returns the allocated sale ids in line order
func (r *CustomerReceipt) SaleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Allocations))
	for i, a := range r.Allocations {
		ids[i] = a.SaleID
	}
	return ids
}

func (r *CustomerReceipt) assign(customerID uuid.UUID, allocations []AllocationInput, details ReceiptDetails) error {
	if customerID == uuid.Nil {
		return shared.NewValidationError("Customer is required")
	}
	total, err := ValidateAllocations(allocations)
	if err != nil {
		return err
	}
	details, err = normalizeDetails(details)
	if err != nil {
		return err
	}

	lines := make([]ReceiptAllocation, len(allocations))
	for i, a := range allocations {
		lines[i] = ReceiptAllocation{
			ID:        uuid.New(),
			ReceiptID: r.ID,
			SaleID:    a.SaleID,
			Amount:    a.Amount,
			LineNo:    i + 1,
		}
	}

	r.CustomerID = customerID
	r.Allocations = lines
	r.TotalAmount = total
	r.PaymentDate = details.PaymentDate
	r.PaymentMode = details.PaymentMode
	r.ReferenceNo = details.ReferenceNo
	r.Notes = details.Notes
	return nil
}

// ValidateAllocations checks the list is non-empty, each sale appears once and
// every amount is positive and representable at MoneyScale. It returns the sum
// of the amounts.
func ValidateAllocations(allocations []AllocationInput) (decimal.Decimal, error) {
	if len(allocations) == 0 {
		return decimal.Zero, shared.NewValidationError(MsgAllocationsRequired)
	}
	seen := make(map[uuid.UUID]struct{}, len(allocations))
	total := decimal.Zero
	for _, a := range allocations {
		if a.SaleID == uuid.Nil {
			return decimal.Zero, shared.NewValidationError("Allocation sale is required")
		}
		if _, dup := seen[a.SaleID]; dup {
			return decimal.Zero, shared.NewValidationError(MsgDuplicateAllocation)
		}
		seen[a.SaleID] = struct{}{}
		if !a.Amount.IsPositive() {
			return decimal.Zero, shared.NewValidationError("Allocation amount must be greater than zero")
		}
		if err := shared.ValidateScale("Allocation amount", a.Amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(a.Amount)
	}
	return total, nil
}

func normalizeDetails(d ReceiptDetails) (ReceiptDetails, error) {
	if d.PaymentMode == "" {
		d.PaymentMode = PaymentModeCash
	}
	if !d.PaymentMode.IsValid() {
		return d, shared.NewValidationError("Invalid payment mode")
	}
	if len(d.ReferenceNo) > 100 {
		return d, shared.NewValidationError("Reference number cannot exceed 100 characters")
	}
	if d.PaymentDate.IsZero() {
		d.PaymentDate = time.Now()
	}
	return d, nil
}
