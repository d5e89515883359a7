package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

const (
	AggregateTypeCustomerReceipt = "CustomerReceipt"
	AggregateTypeSupplierPayment = "SupplierPayment"
)

const (
	EventTypeReceiptCreated          = "ReceiptCreated"
	EventTypeReceiptUpdated          = "ReceiptUpdated"
	EventTypeReceiptDeleted          = "ReceiptDeleted"
	EventTypeSupplierPaymentRecorded = "SupplierPaymentRecorded"
	EventTypeSupplierPaymentUpdated  = "SupplierPaymentUpdated"
	EventTypeSupplierPaymentDeleted  = "SupplierPaymentDeleted"
)

// ReceiptCreatedEvent is published when a receipt is recorded
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID       `json:"receipt_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AllocationCount int             `json:"allocation_count"`
	PaymentMode     PaymentMode     `json:"payment_mode"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(r *CustomerReceipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeCustomerReceipt, r.ID),
		ReceiptID:       r.ID,
		CustomerID:      r.CustomerID,
		TotalAmount:     r.TotalAmount,
		AllocationCount: len(r.Allocations),
		PaymentMode:     r.PaymentMode,
	}
}

// ReceiptUpdatedEvent is published after a receipt was reverted and reapplied
type ReceiptUpdatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID          uuid.UUID       `json:"receipt_id"`
	PreviousCustomerID uuid.UUID       `json:"previous_customer_id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	PreviousTotal      decimal.Decimal `json:"previous_total"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

// NewReceiptUpdatedEvent creates a new ReceiptUpdatedEvent
func NewReceiptUpdatedEvent(r *CustomerReceipt, previousCustomer uuid.UUID, previousTotal decimal.Decimal) *ReceiptUpdatedEvent {
	return &ReceiptUpdatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeReceiptUpdated, AggregateTypeCustomerReceipt, r.ID),
		ReceiptID:          r.ID,
		PreviousCustomerID: previousCustomer,
		CustomerID:         r.CustomerID,
		PreviousTotal:      previousTotal,
		TotalAmount:        r.TotalAmount,
	}
}

// ReceiptDeletedEvent is published when a receipt is soft-deleted
type ReceiptDeletedEvent struct {
	shared.BaseDomainEvent
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewReceiptDeletedEvent creates a new ReceiptDeletedEvent
func NewReceiptDeletedEvent(r *CustomerReceipt) *ReceiptDeletedEvent {
	return &ReceiptDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptDeleted, AggregateTypeCustomerReceipt, r.ID),
		ReceiptID:       r.ID,
		CustomerID:      r.CustomerID,
		TotalAmount:     r.TotalAmount,
	}
}

// SupplierPaymentRecordedEvent is published when a supplier payment is created
type SupplierPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode PaymentMode     `json:"payment_mode"`
}

// NewSupplierPaymentRecordedEvent creates a new SupplierPaymentRecordedEvent
func NewSupplierPaymentRecordedEvent(p *SupplierPayment) *SupplierPaymentRecordedEvent {
	return &SupplierPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierPaymentRecorded, AggregateTypeSupplierPayment, p.ID),
		PaymentID:       p.ID,
		SupplierID:      p.SupplierID,
		Amount:          p.Amount,
		PaymentMode:     p.PaymentMode,
	}
}

// SupplierPaymentUpdatedEvent is published when a supplier payment is edited
type SupplierPaymentUpdatedEvent struct {
	shared.BaseDomainEvent
	PaymentID          uuid.UUID       `json:"payment_id"`
	PreviousSupplierID uuid.UUID       `json:"previous_supplier_id"`
	SupplierID         uuid.UUID       `json:"supplier_id"`
	PreviousAmount     decimal.Decimal `json:"previous_amount"`
	Amount             decimal.Decimal `json:"amount"`
}

// NewSupplierPaymentUpdatedEvent creates a new SupplierPaymentUpdatedEvent
func NewSupplierPaymentUpdatedEvent(p *SupplierPayment, previousSupplier uuid.UUID, previousAmount decimal.Decimal) *SupplierPaymentUpdatedEvent {
	return &SupplierPaymentUpdatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeSupplierPaymentUpdated, AggregateTypeSupplierPayment, p.ID),
		PaymentID:          p.ID,
		PreviousSupplierID: previousSupplier,
		SupplierID:         p.SupplierID,
		PreviousAmount:     previousAmount,
		Amount:             p.Amount,
	}
}

// SupplierPaymentDeletedEvent is published when a supplier payment is removed
type SupplierPaymentDeletedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewSupplierPaymentDeletedEvent creates a new SupplierPaymentDeletedEvent
func NewSupplierPaymentDeletedEvent(p *SupplierPayment) *SupplierPaymentDeletedEvent {
	return &SupplierPaymentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierPaymentDeleted, AggregateTypeSupplierPayment, p.ID),
		PaymentID:       p.ID,
		SupplierID:      p.SupplierID,
		Amount:          p.Amount,
	}
}
