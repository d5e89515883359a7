package partner

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

// HolderType identifies which kind of partner carries a running balance
type HolderType string

const (
	HolderTypeCustomer HolderType = "CUSTOMER"
	HolderTypeSupplier HolderType = "SUPPLIER"
)

// IsValid reports whether t is a known holder type
func (t HolderType) IsValid() bool {
	return t == HolderTypeCustomer || t == HolderTypeSupplier
}

// Holder is a partner whose outstanding balance is maintained by the ledger engine.
// For a customer the balance is what the customer owes; for a supplier it is what
// the business owes the supplier.
type Holder interface {
	shared.AggregateRoot
	HolderType() HolderType
	Outstanding() decimal.Decimal
	// AdjustOutstanding adds delta (which may be negative) to the balance and
	// returns the balance before and after the change.
	AdjustOutstanding(delta decimal.Decimal, reason string) (before, after decimal.Decimal)
}

// Profile holds the descriptive fields shared by customers and suppliers
type Profile struct {
	Code    string
	Name    string
	Phone   string
	Address string
	Notes   string
}

var (
	codePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

func normalizeProfile(entity string, p Profile) (Profile, error) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	if err := validateCode(entity, p.Code); err != nil {
		return p, err
	}
	if err := validateProfileFields(entity, p); err != nil {
		return p, err
	}
	return p, nil
}

func validateCode(entity, code string) error {
	if code == "" {
		return shared.NewValidationError(entity + " code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewValidationError(entity + " code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(code) {
		return shared.NewValidationError(entity + " code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateProfileFields(entity string, p Profile) error {
	if p.Name == "" {
		return shared.NewValidationError(entity + " name cannot be empty")
	}
	if len(p.Name) > 200 {
		return shared.NewValidationError(entity + " name cannot exceed 200 characters")
	}
	if p.Phone != "" {
		if len(p.Phone) > 50 {
			return shared.NewValidationError("Phone number cannot exceed 50 characters")
		}
		if !phonePattern.MatchString(p.Phone) {
			return shared.NewValidationError("Invalid phone number format")
		}
	}
	if len(p.Address) > 500 {
		return shared.NewValidationError("Address cannot exceed 500 characters")
	}
	return nil
}

func validateOpeningBalance(entity string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError(entity + " opening balance cannot be negative")
	}
	return shared.ValidateScale(entity+" opening balance", amount)
}
