package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplier_AdjustOutstandingAllowsNegative(t *testing.T) {
	s, err := NewSupplier(Profile{Code: "SUP-B", Name: "Hosur Farms"}, decimal.Zero)
	require.NoError(t, err)

	_, after := s.AdjustOutstanding(decimal.NewFromInt(-100), "payment")

	assert.True(t, after.Equal(decimal.NewFromInt(-100)))
	assert.True(t, s.IsInCredit())
	assert.Equal(t, HolderTypeSupplier, s.HolderType())
}

func TestHolderType_IsValid(t *testing.T) {
	assert.True(t, HolderTypeCustomer.IsValid())
	assert.True(t, HolderTypeSupplier.IsValid())
	assert.False(t, HolderType("VENDOR").IsValid())
}
