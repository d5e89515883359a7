package finance

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntegrityKind classifies a detected ledger inconsistency
type IntegrityKind string

const (
	// IntegrityMissingObligation: a revert targeted a sale that no longer exists
	IntegrityMissingObligation IntegrityKind = "MISSING_OBLIGATION"
	// IntegrityRevertClamped: a revert asked for more than the sale had paid
	IntegrityRevertClamped IntegrityKind = "REVERT_CLAMPED"
	// IntegrityHolderBalanceMismatch: a stored balance differs from its documents
	IntegrityHolderBalanceMismatch IntegrityKind = "HOLDER_BALANCE_MISMATCH"
	// IntegrityAmountPaidMismatch: a sale's amount paid differs from its allocations
	IntegrityAmountPaidMismatch IntegrityKind = "AMOUNT_PAID_MISMATCH"
)

// IntegrityWarning describes a condition where the ledger may already be
// inconsistent. It is logged and counted, never returned to the caller.
type IntegrityWarning struct {
	Kind     IntegrityKind   `json:"kind"`
	EntityID uuid.UUID       `json:"entity_id"`
	SourceID uuid.UUID       `json:"source_id,omitempty"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
	Detail   string          `json:"detail"`
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("%s on %s: expected %s, actual %s (%s)", w.Kind, w.EntityID, w.Expected, w.Actual, w.Detail)
}
