package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchase(t *testing.T) {
	t.Run("computes weight loss and total from net weight", func(t *testing.T) {
		p, err := NewPurchase(uuid.New(), "P-001", time.Now(),
			decimal.NewFromInt(1000), decimal.NewFromInt(920), decimal.RequireFromString("42.5"), "")

		require.NoError(t, err)
		assert.True(t, p.WeightLossPercent.Equal(decimal.NewFromInt(8)), "got %s", p.WeightLossPercent)
		assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(39100)), "got %s", p.TotalAmount)
		assert.True(t, p.WeightLoss().Equal(decimal.NewFromInt(80)))
	})

	t.Run("rounds loss percent to two places", func(t *testing.T) {
		assert.Equal(t, "33.33", WeightLossPercent(decimal.NewFromInt(3), decimal.NewFromInt(2)).StringFixed(2))
	})

	t.Run("rejects net above gross", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), "P-002", time.Now(),
			decimal.NewFromInt(100), decimal.NewFromInt(101), decimal.NewFromInt(1), "")
		assert.ErrorContains(t, err, "Net weight cannot exceed gross weight")
	})

	t.Run("rejects values finer than four places", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), "P-004", time.Now(),
			decimal.NewFromInt(10), decimal.RequireFromString("9.99999"), decimal.NewFromInt(1), "")
		assert.EqualError(t, err, "Net weight cannot have more than 4 decimal places")

		_, err = NewPurchase(uuid.New(), "P-005", time.Now(),
			decimal.NewFromInt(10), decimal.NewFromInt(9), decimal.RequireFromString("1.00005"), "")
		assert.EqualError(t, err, "Rate cannot have more than 4 decimal places")
	})

	t.Run("rejects zero weights", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), "P-003", time.Now(), decimal.Zero, decimal.Zero, decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}
