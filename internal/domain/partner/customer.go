package partner

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// Customer buys processed tamarind. OutstandingBalance is the amount the
// customer currently owes and is only changed through AdjustOutstanding.
type Customer struct {
	shared.BaseAggregateRoot
	Code               string
	Name               string
	Phone              string
	Address            string
	Notes              string
	OpeningBalance     decimal.Decimal
	OutstandingBalance decimal.Decimal
}

// NewCustomer creates a new customer whose balance starts at openingBalance
func NewCustomer(profile Profile, openingBalance decimal.Decimal) (*Customer, error) {
	p, err := normalizeProfile("Customer", profile)
	if err != nil {
		return nil, err
	}
	if err := validateOpeningBalance("Customer", openingBalance); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               p.Code,
		Name:               p.Name,
		Phone:              p.Phone,
		Address:            p.Address,
		Notes:              p.Notes,
		OpeningBalance:     openingBalance,
		OutstandingBalance: openingBalance,
	}
	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// UpdateProfile replaces the descriptive fields. The code is immutable.
func (c *Customer) UpdateProfile(name, phone, address, notes string) error {
	p := Profile{Code: c.Code, Name: name, Phone: phone, Address: address, Notes: notes}
	if err := validateProfileFields("Customer", p); err != nil {
		return err
	}
	c.Name = p.Name
	c.Phone = p.Phone
	c.Address = p.Address
	c.Notes = p.Notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// HolderType implements Holder
func (c *Customer) HolderType() HolderType {
	return HolderTypeCustomer
}

// Outstanding implements Holder
func (c *Customer) Outstanding() decimal.Decimal {
	return c.OutstandingBalance
}

// AdjustOutstanding implements Holder
func (c *Customer) AdjustOutstanding(delta decimal.Decimal, reason string) (decimal.Decimal, decimal.Decimal) {
	before := c.OutstandingBalance
	c.OutstandingBalance = c.OutstandingBalance.Add(delta)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, before, c.OutstandingBalance, reason))

	return before, c.OutstandingBalance
}

// HasOutstanding returns true if the customer still owes money
func (c *Customer) HasOutstanding() bool {
	return c.OutstandingBalance.IsPositive()
}
