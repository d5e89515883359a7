package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// Purchase is a lot of raw tamarind bought from a supplier. The supplier is
// paid on net weight; the difference to gross weight is recorded as loss.
type Purchase struct {
	shared.BaseAggregateRoot
	SupplierID        uuid.UUID
	PurchaseNumber    string
	PurchaseDate      time.Time
	GrossWeight       decimal.Decimal
	NetWeight         decimal.Decimal
	Rate              decimal.Decimal
	WeightLossPercent decimal.Decimal
	TotalAmount       decimal.Decimal
	Notes             string
}

// NewPurchase validates weights and computes the derived fields
func NewPurchase(supplierID uuid.UUID, purchaseNumber string, purchaseDate time.Time, grossWeight, netWeight, rate decimal.Decimal, notes string) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier is required")
	}
	if purchaseNumber == "" {
		return nil, shared.NewValidationError("Purchase number is required")
	}
	if len(purchaseNumber) > 50 {
		return nil, shared.NewValidationError("Purchase number cannot exceed 50 characters")
	}
	if !grossWeight.IsPositive() {
		return nil, shared.NewValidationError("Gross weight must be greater than zero")
	}
	if !netWeight.IsPositive() {
		return nil, shared.NewValidationError("Net weight must be greater than zero")
	}
	if netWeight.GreaterThan(grossWeight) {
		return nil, shared.NewValidationError("Net weight cannot exceed gross weight")
	}
	if !rate.IsPositive() {
		return nil, shared.NewValidationError("Rate must be greater than zero")
	}
	if err := shared.ValidateScale("Gross weight", grossWeight); err != nil {
		return nil, err
	}
	if err := shared.ValidateScale("Net weight", netWeight); err != nil {
		return nil, err
	}
	if err := shared.ValidateScale("Rate", rate); err != nil {
		return nil, err
	}
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		PurchaseNumber:    purchaseNumber,
		PurchaseDate:      purchaseDate,
		GrossWeight:       grossWeight,
		NetWeight:         netWeight,
		Rate:              rate,
		Notes:             notes,
	}
	p.computeTotals()
	p.AddDomainEvent(NewPurchaseCreatedEvent(p))

	return p, nil
}

func (p *Purchase) computeTotals() {
	p.WeightLossPercent = WeightLossPercent(p.GrossWeight, p.NetWeight)
	p.TotalAmount = p.NetWeight.Mul(p.Rate).Round(4)
}

// WeightLoss returns gross minus net weight
func (p *Purchase) WeightLoss() decimal.Decimal {
	return p.GrossWeight.Sub(p.NetWeight)
}

// WeightLossPercent returns (gross − net) / gross × 100 rounded to two places
func WeightLossPercent(gross, net decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}
	return gross.Sub(net).Div(gross).Mul(hundred).Round(2)
}
