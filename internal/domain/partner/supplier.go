package partner

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// Supplier sells raw tamarind to the business. OutstandingBalance is what the
// business owes the supplier. There is no lower bound: a negative balance is
// credit the supplier owes back.
type Supplier struct {
	shared.BaseAggregateRoot
	Code               string
	Name               string
	Phone              string
	Address            string
	Notes              string
	OpeningBalance     decimal.Decimal
	OutstandingBalance decimal.Decimal
}

// NewSupplier creates a new supplier whose balance starts at openingBalance
func NewSupplier(profile Profile, openingBalance decimal.Decimal) (*Supplier, error) {
	p, err := normalizeProfile("Supplier", profile)
	if err != nil {
		return nil, err
	}
	if err := validateOpeningBalance("Supplier", openingBalance); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               p.Code,
		Name:               p.Name,
		Phone:              p.Phone,
		Address:            p.Address,
		Notes:              p.Notes,
		OpeningBalance:     openingBalance,
		OutstandingBalance: openingBalance,
	}
	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// UpdateProfile replaces the descriptive fields. The code is immutable.
func (s *Supplier) UpdateProfile(name, phone, address, notes string) error {
	p := Profile{Code: s.Code, Name: name, Phone: phone, Address: address, Notes: notes}
	if err := validateProfileFields("Supplier", p); err != nil {
		return err
	}
	s.Name = p.Name
	s.Phone = p.Phone
	s.Address = p.Address
	s.Notes = p.Notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func (s *Supplier) HolderType() HolderType {
	return HolderTypeSupplier
}

func (s *Supplier) Outstanding() decimal.Decimal {
	return s.OutstandingBalance
}

func (s *Supplier) AdjustOutstanding(delta decimal.Decimal, reason string) (decimal.Decimal, decimal.Decimal) {
	before := s.OutstandingBalance
	s.OutstandingBalance = s.OutstandingBalance.Add(delta)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierBalanceChangedEvent(s, before, s.OutstandingBalance, reason))

	return before, s.OutstandingBalance
}

// IsInCredit returns true if the supplier has been overpaid
func (s *Supplier) IsInCredit() bool {
	return s.OutstandingBalance.IsNegative()
}
