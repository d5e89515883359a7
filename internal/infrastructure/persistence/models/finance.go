package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
)

// CustomerReceiptModel is the persistence model for the CustomerReceipt aggregate.
type CustomerReceiptModel struct {
	AggregateModel
	CustomerID  uuid.UUID                `gorm:"type:uuid;not null;index:idx_receipts_customer"`
	TotalAmount decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time                `gorm:"not null;index"`
	PaymentMode finance.PaymentMode      `gorm:"type:varchar(20);not null"`
	ReferenceNo string                   `gorm:"type:varchar(100)"`
	Notes       string                   `gorm:"type:text"`
	IsDeleted   bool                     `gorm:"not null;default:false;index"`
	DeletedAt   *time.Time               `gorm:"column:deleted_at"`
	Allocations []ReceiptAllocationModel `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CustomerReceiptModel) TableName() string {
	return "customer_receipts"
}

// ToDomain converts the model and its loaded allocations to a domain receipt
func (m *CustomerReceiptModel) ToDomain() *finance.CustomerReceipt {
	allocations := make([]finance.ReceiptAllocation, len(m.Allocations))
	for i := range m.Allocations {
		allocations[i] = m.Allocations[i].ToDomain()
	}
	return &finance.CustomerReceipt{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
		Allocations:       allocations,
		TotalAmount:       m.TotalAmount,
		PaymentDate:       m.PaymentDate,
		PaymentMode:       m.PaymentMode,
		ReferenceNo:       m.ReferenceNo,
		Notes:             m.Notes,
		IsDeleted:         m.IsDeleted,
		DeletedAt:         m.DeletedAt,
	}
}

// CustomerReceiptModelFromDomain creates a model, allocations included
func CustomerReceiptModelFromDomain(r *finance.CustomerReceipt) *CustomerReceiptModel {
	m := &CustomerReceiptModel{
		CustomerID:  r.CustomerID,
		TotalAmount: r.TotalAmount,
		PaymentDate: r.PaymentDate,
		PaymentMode: r.PaymentMode,
		ReferenceNo: r.ReferenceNo,
		Notes:       r.Notes,
		IsDeleted:   r.IsDeleted,
		DeletedAt:   r.DeletedAt,
		Allocations: make([]ReceiptAllocationModel, len(r.Allocations)),
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	for i, a := range r.Allocations {
		m.Allocations[i] = ReceiptAllocationModel{
			ID:        a.ID,
			ReceiptID: r.ID,
			SaleID:    a.SaleID,
			Amount:    a.Amount,
			LineNo:    a.LineNo,
		}
	}
	return m
}

// ReceiptAllocationModel is one receipt line. sale_id carries no foreign key:
// a sale that vanished out of band must not block reverting the receipt.
type ReceiptAllocationModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocations_receipt_sale,priority:1"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocations_receipt_sale,priority:2;index:idx_allocations_sale"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineNo    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptAllocationModel) TableName() string {
	return "receipt_allocations"
}

// ToDomain converts the model to a domain allocation
func (m *ReceiptAllocationModel) ToDomain() finance.ReceiptAllocation {
	return finance.ReceiptAllocation{
		ID:        m.ID,
		ReceiptID: m.ReceiptID,
		SaleID:    m.SaleID,
		Amount:    m.Amount,
		LineNo:    m.LineNo,
	}
}

// SupplierPaymentModel is the persistence model for the SupplierPayment aggregate.
type SupplierPaymentModel struct {
	AggregateModel
	SupplierID  uuid.UUID           `gorm:"type:uuid;not null;index:idx_supplier_payments_supplier"`
	Amount      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time           `gorm:"not null;index"`
	PaymentMode finance.PaymentMode `gorm:"type:varchar(20);not null"`
	ReferenceNo string              `gorm:"type:varchar(100)"`
	Notes       string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierPaymentModel) TableName() string {
	return "supplier_payments"
}

// ToDomain converts the model to a domain SupplierPayment
func (m *SupplierPaymentModel) ToDomain() *finance.SupplierPayment {
	return &finance.SupplierPayment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SupplierID:        m.SupplierID,
		Amount:            m.Amount,
		PaymentDate:       m.PaymentDate,
		PaymentMode:       m.PaymentMode,
		ReferenceNo:       m.ReferenceNo,
		Notes:             m.Notes,
	}
}

// SupplierPaymentModelFromDomain creates a model from a domain SupplierPayment
func SupplierPaymentModelFromDomain(p *finance.SupplierPayment) *SupplierPaymentModel {
	m := &SupplierPaymentModel{
		SupplierID:  p.SupplierID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		PaymentMode: p.PaymentMode,
		ReferenceNo: p.ReferenceNo,
		Notes:       p.Notes,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// LedgerEntryModel is one append-only journal line.
type LedgerEntryModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	HolderType    partner.HolderType  `gorm:"type:varchar(20);not null;index:idx_ledger_entries_holder,priority:1"`
	HolderID      uuid.UUID           `gorm:"type:uuid;not null;index:idx_ledger_entries_holder,priority:2"`
	SourceType    finance.SourceType  `gorm:"type:varchar(30);not null"`
	SourceID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Action        finance.EntryAction `gorm:"type:varchar(20);not null"`
	Delta         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time           `gorm:"not null;index:idx_ledger_entries_holder,priority:3"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() finance.LedgerEntry {
	return finance.LedgerEntry{
		ID:            m.ID,
		HolderType:    m.HolderType,
		HolderID:      m.HolderID,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		Action:        m.Action,
		Delta:         m.Delta,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CreatedAt:     m.CreatedAt,
	}
}

// LedgerEntryModelFromDomain creates a model from a domain LedgerEntry
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	return &LedgerEntryModel{
		ID:            e.ID,
		HolderType:    e.HolderType,
		HolderID:      e.HolderID,
		SourceType:    e.SourceType,
		SourceID:      e.SourceID,
		Action:        e.Action,
		Delta:         e.Delta,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		CreatedAt:     e.CreatedAt,
	}
}

// All returns every model in migration order
func All() []any {
	return []any{
		&CustomerModel{},
		&SupplierModel{},
		&SaleModel{},
		&PurchaseModel{},
		&CustomerReceiptModel{},
		&ReceiptAllocationModel{},
		&SupplierPaymentModel{},
		&LedgerEntryModel{},
		&OutboxEntryModel{},
		&ReconcileRunModel{},
	}
}
