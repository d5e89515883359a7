package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/partner"
)

// SourceType names the document that caused a balance movement
type SourceType string

const (
	SourceTypeSale            SourceType = "SALE"
	SourceTypePurchase        SourceType = "PURCHASE"
	SourceTypeReceipt         SourceType = "RECEIPT"
	SourceTypeSupplierPayment SourceType = "SUPPLIER_PAYMENT"
)

// EntryAction describes the direction of a movement
type EntryAction string

const (
	// EntryActionCharge raises the balance for a new sale or purchase
	EntryActionCharge EntryAction = "CHARGE"
	// EntryActionApply lowers the balance for a payment
	EntryActionApply EntryAction = "APPLY"
	// EntryActionRevert undoes an earlier charge or payment
	EntryActionRevert EntryAction = "REVERT"
)

// LedgerEntry is one immutable line of a holder's balance journal
type LedgerEntry struct {
	ID            uuid.UUID
	HolderType    partner.HolderType
	HolderID      uuid.UUID
	SourceType    SourceType
	SourceID      uuid.UUID
	Action        EntryAction
	Delta         decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// NewLedgerEntry records a movement of a holder balance from before to after
func NewLedgerEntry(holderType partner.HolderType, holderID uuid.UUID, source SourceType, sourceID uuid.UUID, action EntryAction, before, after decimal.Decimal) *LedgerEntry {
	return &LedgerEntry{
		ID:            uuid.New(),
		HolderType:    holderType,
		HolderID:      holderID,
		SourceType:    source,
		SourceID:      sourceID,
		Action:        action,
		Delta:         after.Sub(before),
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedAt:     time.Now(),
	}
}
