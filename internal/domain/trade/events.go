package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

const (
	AggregateTypeSale     = "Sale"
	AggregateTypePurchase = "Purchase"
)

const (
	EventTypeSaleCreated     = "SaleCreated"
	EventTypeSaleDeleted     = "SaleDeleted"
	EventTypePurchaseCreated = "PurchaseCreated"
	EventTypePurchaseDeleted = "PurchaseDeleted"
)

// SaleCreatedEvent is published when a sale is recorded against a customer
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	SaleNumber  string          `json:"sale_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		SaleNumber:      s.SaleNumber,
		TotalAmount:     s.TotalAmount,
	}
}

// SaleDeletedEvent is published when an unpaid sale is removed
type SaleDeletedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSaleDeletedEvent creates a new SaleDeletedEvent
func NewSaleDeletedEvent(s *Sale) *SaleDeletedEvent {
	return &SaleDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleDeleted, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		TotalAmount:     s.TotalAmount,
	}
}

// PurchaseCreatedEvent is published when a purchase lot is recorded
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseID        uuid.UUID       `json:"purchase_id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	PurchaseNumber    string          `json:"purchase_number"`
	NetWeight         decimal.Decimal `json:"net_weight"`
	WeightLossPercent decimal.Decimal `json:"weight_loss_percent"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// NewPurchaseCreatedEvent creates a new PurchaseCreatedEvent
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID),
		PurchaseID:        p.ID,
		SupplierID:        p.SupplierID,
		PurchaseNumber:    p.PurchaseNumber,
		NetWeight:         p.NetWeight,
		WeightLossPercent: p.WeightLossPercent,
		TotalAmount:       p.TotalAmount,
	}
}

// PurchaseDeletedEvent is published when a purchase is removed
type PurchaseDeletedEvent struct {
	shared.BaseDomainEvent
	PurchaseID  uuid.UUID       `json:"purchase_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseDeletedEvent creates a new PurchaseDeletedEvent
func NewPurchaseDeletedEvent(p *Purchase) *PurchaseDeletedEvent {
	return &PurchaseDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseDeleted, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		SupplierID:      p.SupplierID,
		TotalAmount:     p.TotalAmount,
	}
}
