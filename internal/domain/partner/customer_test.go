package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("starts outstanding at opening balance", func(t *testing.T) {
		c, err := NewCustomer(Profile{Code: "cust-01", Name: " Ravi Traders "}, decimal.NewFromInt(250))

		require.NoError(t, err)
		assert.Equal(t, "CUST-01", c.Code)
		assert.Equal(t, "Ravi Traders", c.Name)
		assert.True(t, c.OutstandingBalance.Equal(decimal.NewFromInt(250)))
		assert.Equal(t, HolderTypeCustomer, c.HolderType())
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("validates profile", func(t *testing.T) {
		_, err := NewCustomer(Profile{Code: "", Name: "x"}, decimal.Zero)
		assert.ErrorContains(t, err, "code cannot be empty")

		_, err = NewCustomer(Profile{Code: "C@1", Name: "x"}, decimal.Zero)
		assert.ErrorContains(t, err, "can only contain")

		_, err = NewCustomer(Profile{Code: "C1", Name: ""}, decimal.Zero)
		assert.ErrorContains(t, err, "name cannot be empty")

		_, err = NewCustomer(Profile{Code: "C1", Name: "x", Phone: "abc"}, decimal.Zero)
		assert.ErrorContains(t, err, "Invalid phone")

		_, err = NewCustomer(Profile{Code: "C1", Name: "x"}, decimal.NewFromInt(-1))
		assert.ErrorContains(t, err, "opening balance")

		_, err = NewCustomer(Profile{Code: "C1", Name: "x"}, decimal.RequireFromString("10.00001"))
		assert.EqualError(t, err, "Customer opening balance cannot have more than 4 decimal places")
	})
}

func TestCustomer_AdjustOutstanding(t *testing.T) {
	c, err := NewCustomer(Profile{Code: "C1", Name: "Ravi"}, decimal.NewFromInt(1000))
	require.NoError(t, err)
	c.ClearDomainEvents()

	before, after := c.AdjustOutstanding(decimal.NewFromInt(-400), "receipt")

	assert.True(t, before.Equal(decimal.NewFromInt(1000)))
	assert.True(t, after.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 2, c.Version)
	require.Len(t, c.GetDomainEvents(), 1)
	evt := c.GetDomainEvents()[0].(*CustomerBalanceChangedEvent)
	assert.True(t, evt.Delta.Equal(decimal.NewFromInt(-400)))
	assert.Equal(t, "receipt", evt.Reason)
}

func TestCustomer_AdjustOutstanding_AllowsCredit(t *testing.T) {
	c, err := NewCustomer(Profile{Code: "C2", Name: "Meena"}, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, after := c.AdjustOutstanding(decimal.NewFromInt(-250), "receipt")

	assert.True(t, after.Equal(decimal.NewFromInt(-150)), after.String())
	assert.True(t, c.Outstanding().Equal(decimal.NewFromInt(-150)))
}

func TestCustomer_UpdateProfile(t *testing.T) {
	c, err := NewCustomer(Profile{Code: "C1", Name: "Ravi"}, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, c.UpdateProfile("Ravi & Sons", "+91 98450 00000", "Market Road", "weekly"))
	assert.Equal(t, "Ravi & Sons", c.Name)
	assert.Equal(t, "C1", c.Code)
	assert.Error(t, c.UpdateProfile("", "", "", ""))
}
