package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount, quantity and
// rate column stores.
const MoneyScale = 4

// ValidateScale rejects v when it carries significant digits past MoneyScale.
// Trailing zeros are fine: 1.50000 is accepted.
func ValidateScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(MoneyScale)) {
		return NewValidationError(fmt.Sprintf("%s cannot have more than %d decimal places", field, MoneyScale))
	}
	return nil
}
