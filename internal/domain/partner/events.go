package partner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeSupplier = "Supplier"
)

// Event type constants
const (
	EventTypeCustomerCreated        = "CustomerCreated"
	EventTypeCustomerBalanceChanged = "CustomerBalanceChanged"
	EventTypeSupplierCreated        = "SupplierCreated"
	EventTypeSupplierBalanceChanged = "SupplierBalanceChanged"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID       `json:"customer_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		Code:            c.Code,
		Name:            c.Name,
		OpeningBalance:  c.OpeningBalance,
	}
}

// BalanceChangedEvent is the payload shared by both holder balance events
type BalanceChangedEvent struct {
	shared.BaseDomainEvent
	HolderID   uuid.UUID       `json:"holder_id"`
	HolderType HolderType      `json:"holder_type"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Delta      decimal.Decimal `json:"delta"`
	Reason     string          `json:"reason"`
}

// CustomerBalanceChangedEvent is published whenever a customer's outstanding balance moves
type CustomerBalanceChangedEvent struct {
	BalanceChangedEvent
}

// NewCustomerBalanceChangedEvent creates a new CustomerBalanceChangedEvent
func NewCustomerBalanceChangedEvent(c *Customer, oldBalance, newBalance decimal.Decimal, reason string) *CustomerBalanceChangedEvent {
	return &CustomerBalanceChangedEvent{BalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerBalanceChanged, AggregateTypeCustomer, c.ID),
		HolderID:        c.ID,
		HolderType:      HolderTypeCustomer,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		Delta:           newBalance.Sub(oldBalance),
		Reason:          reason,
	}}
}

// SupplierCreatedEvent is published when a new supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID     uuid.UUID       `json:"supplier_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, s.ID),
		SupplierID:      s.ID,
		Code:            s.Code,
		Name:            s.Name,
		OpeningBalance:  s.OpeningBalance,
	}
}

// SupplierBalanceChangedEvent is published whenever a supplier's outstanding balance moves
type SupplierBalanceChangedEvent struct {
	BalanceChangedEvent
}

// NewSupplierBalanceChangedEvent creates a new SupplierBalanceChangedEvent
func NewSupplierBalanceChangedEvent(s *Supplier, oldBalance, newBalance decimal.Decimal, reason string) *SupplierBalanceChangedEvent {
	return &SupplierBalanceChangedEvent{BalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierBalanceChanged, AggregateTypeSupplier, s.ID),
		HolderID:        s.ID,
		HolderType:      HolderTypeSupplier,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		Delta:           newBalance.Sub(oldBalance),
		Reason:          reason,
	}}
}
