package finance

import (
	"context"
	"fmt"

	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BalanceObserver is notified of every committed holder balance movement
type BalanceObserver interface {
	ObserveBalanceChange(ctx context.Context, holderType string, delta float64)
}

// BalanceChangedHandler consumes holder balance events from the outbox. It
// logs each movement and flags suppliers that moved into credit.
type BalanceChangedHandler struct {
	logger   *zap.Logger
	observer BalanceObserver
}

// NewBalanceChangedHandler creates a new BalanceChangedHandler
func NewBalanceChangedHandler(logger *zap.Logger) *BalanceChangedHandler {
	return &BalanceChangedHandler{logger: logger}
}

// WithObserver sets the metrics observer
func (h *BalanceChangedHandler) WithObserver(o BalanceObserver) *BalanceChangedHandler {
	h.observer = o
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *BalanceChangedHandler) EventTypes() []string {
	return []string{
		partner.EventTypeCustomerBalanceChanged,
		partner.EventTypeSupplierBalanceChanged,
	}
}

// Handle processes a holder balance event
func (h *BalanceChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var change partner.BalanceChangedEvent
	switch e := event.(type) {
	case *partner.CustomerBalanceChangedEvent:
		change = e.BalanceChangedEvent
	case *partner.SupplierBalanceChangedEvent:
		change = e.BalanceChangedEvent
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	h.logger.Info("holder balance changed",
		zap.String("holder_type", string(change.HolderType)),
		zap.String("holder_id", change.HolderID.String()),
		zap.String("old_balance", change.OldBalance.String()),
		zap.String("new_balance", change.NewBalance.String()),
		zap.String("reason", change.Reason),
	)

	if change.HolderType == partner.HolderTypeSupplier &&
		change.NewBalance.IsNegative() && !change.OldBalance.IsNegative() {
		h.logger.Warn("supplier moved into credit",
			zap.String("supplier_id", change.HolderID.String()),
			zap.String("balance", change.NewBalance.String()),
		)
	}

	if h.observer != nil {
		h.observer.ObserveBalanceChange(ctx, string(change.HolderType), change.Delta.InexactFloat64())
	}
	return nil
}

var _ shared.EventHandler = (*BalanceChangedHandler)(nil)
