package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/trade"
)

// SaleModel is the persistence model for the Sale aggregate.
type SaleModel struct {
	AggregateModel
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_customer_date,priority:1"`
	SaleNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_number"`
	SaleDate    time.Time       `gorm:"not null;index:idx_sales_customer_date,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the model to a domain Sale
func (m *SaleModel) ToDomain() *trade.Sale {
	return &trade.Sale{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
		SaleNumber:        m.SaleNumber,
		SaleDate:          m.SaleDate,
		Quantity:          m.Quantity,
		Rate:              m.Rate,
		TotalAmount:       m.TotalAmount,
		AmountPaid:        m.AmountPaid,
		Notes:             m.Notes,
	}
}

// SaleModelFromDomain creates a model from a domain Sale
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{
		CustomerID:  s.CustomerID,
		SaleNumber:  s.SaleNumber,
		SaleDate:    s.SaleDate,
		Quantity:    s.Quantity,
		Rate:        s.Rate,
		TotalAmount: s.TotalAmount,
		AmountPaid:  s.AmountPaid,
		Notes:       s.Notes,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// PurchaseModel is the persistence model for the Purchase aggregate.
type PurchaseModel struct {
	AggregateModel
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchases_supplier_date,priority:1"`
	PurchaseNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchases_number"`
	PurchaseDate      time.Time       `gorm:"not null;index:idx_purchases_supplier_date,priority:2"`
	GrossWeight       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetWeight         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WeightLossPercent decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the model to a domain Purchase
func (m *PurchaseModel) ToDomain() *trade.Purchase {
	return &trade.Purchase{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SupplierID:        m.SupplierID,
		PurchaseNumber:    m.PurchaseNumber,
		PurchaseDate:      m.PurchaseDate,
		GrossWeight:       m.GrossWeight,
		NetWeight:         m.NetWeight,
		Rate:              m.Rate,
		WeightLossPercent: m.WeightLossPercent,
		TotalAmount:       m.TotalAmount,
		Notes:             m.Notes,
	}
}

// PurchaseModelFromDomain creates a model from a domain Purchase
func PurchaseModelFromDomain(p *trade.Purchase) *PurchaseModel {
	m := &PurchaseModel{
		SupplierID:        p.SupplierID,
		PurchaseNumber:    p.PurchaseNumber,
		PurchaseDate:      p.PurchaseDate,
		GrossWeight:       p.GrossWeight,
		NetWeight:         p.NetWeight,
		Rate:              p.Rate,
		WeightLossPercent: p.WeightLossPercent,
		TotalAmount:       p.TotalAmount,
		Notes:             p.Notes,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
