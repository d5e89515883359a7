package models

import (
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	AggregateModel
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_customers_code"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Phone              string          `gorm:"type:varchar(50)"`
	Address            string          `gorm:"type:text"`
	Notes              string          `gorm:"type:text"`
	OpeningBalance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		Code:               m.Code,
		Name:               m.Name,
		Phone:              m.Phone,
		Address:            m.Address,
		Notes:              m.Notes,
		OpeningBalance:     m.OpeningBalance,
		OutstandingBalance: m.OutstandingBalance,
	}
}

// CustomerModelFromDomain creates a model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Code:               c.Code,
		Name:               c.Name,
		Phone:              c.Phone,
		Address:            c.Address,
		Notes:              c.Notes,
		OpeningBalance:     c.OpeningBalance,
		OutstandingBalance: c.OutstandingBalance,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// SupplierModel is the persistence model for the Supplier aggregate.
type SupplierModel struct {
	AggregateModel
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_suppliers_code"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Phone              string          `gorm:"type:varchar(50)"`
	Address            string          `gorm:"type:text"`
	Notes              string          `gorm:"type:text"`
	OpeningBalance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		Code:               m.Code,
		Name:               m.Name,
		Phone:              m.Phone,
		Address:            m.Address,
		Notes:              m.Notes,
		OpeningBalance:     m.OpeningBalance,
		OutstandingBalance: m.OutstandingBalance,
	}
}

// SupplierModelFromDomain creates a model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Code:               s.Code,
		Name:               s.Name,
		Phone:              s.Phone,
		Address:            s.Address,
		Notes:              s.Notes,
		OpeningBalance:     s.OpeningBalance,
		OutstandingBalance: s.OutstandingBalance,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
