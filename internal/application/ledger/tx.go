package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
	"github.com/tamarind/backend/internal/infrastructure/telemetry"
)

// Source identifies the document behind a balance movement
type Source struct {
	Type finance.SourceType
	ID   uuid.UUID
}

// Tx is the engine's view of one running transaction. Rows it loads are
// locked and cached, so repeated access within the operation sees the same
// in-memory aggregate and its version stays consistent with the row.
//
// Lock order is: receipt or payment row, then holders sorted by id, then sales
// sorted by id. Callers use LockCustomers, LockSuppliers and LockSales before
// mutating so every operation acquires locks in the same order.
type Tx struct {
	engine    *Engine
	repos     TransactionalRepositories
	customers map[uuid.UUID]*partner.Customer
	suppliers map[uuid.UUID]*partner.Supplier
	sales     map[uuid.UUID]*trade.Sale
	missing   map[uuid.UUID]struct{}
	tracked   []shared.AggregateRoot
	warnings  []finance.IntegrityWarning
}

func newTx(e *Engine, repos TransactionalRepositories) *Tx {
	return &Tx{
		engine:    e,
		repos:     repos,
		customers: make(map[uuid.UUID]*partner.Customer),
		suppliers: make(map[uuid.UUID]*partner.Supplier),
		sales:     make(map[uuid.UUID]*trade.Sale),
		missing:   make(map[uuid.UUID]struct{}),
	}
}

// Repos returns the repositories bound to this transaction
func (t *Tx) Repos() TransactionalRepositories {
	return t.repos
}

// Track schedules the aggregates' pending domain events for the outbox
func (t *Tx) Track(aggregates ...shared.AggregateRoot) {
	t.tracked = append(t.tracked, aggregates...)
}

// Warnings returns the integrity warnings observed so far
func (t *Tx) Warnings() []finance.IntegrityWarning {
	return t.warnings
}

func (t *Tx) warn(w finance.IntegrityWarning) {
	t.warnings = append(t.warnings, w)
}

// LockCustomers loads and locks the given customers in id order
func (t *Tx) LockCustomers(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range shared.SortIDs(ids...) {
		if _, err := t.customer(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// LockSuppliers loads and locks the given suppliers in id order
func (t *Tx) LockSuppliers(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range shared.SortIDs(ids...) {
		if _, err := t.supplier(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// LockSales loads and locks the given sales in id order. Sales that do not
// exist are remembered as missing instead of failing, so a revert can still
// run; ApplyPayment reports them as not found.
func (t *Tx) LockSales(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range shared.SortIDs(ids...) {
		if _, err := t.sale(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}
	return nil
}

// Customer returns the locked customer, loading it if needed
func (t *Tx) Customer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return t.customer(ctx, id)
}

// Supplier returns the locked supplier, loading it if needed
func (t *Tx) Supplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return t.supplier(ctx, id)
}

// Sale returns the locked sale, loading it if needed
func (t *Tx) Sale(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return t.sale(ctx, id)
}

func (t *Tx) customer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := t.customers[id]; ok {
		return c, nil
	}
	c, err := t.repos.CustomerRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Customer", id)
		}
		return nil, fmt.Errorf("load customer %s: %w", id, err)
	}
	t.customers[id] = c
	return c, nil
}

func (t *Tx) supplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	if s, ok := t.suppliers[id]; ok {
		return s, nil
	}
	s, err := t.repos.SupplierRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Supplier", id)
		}
		return nil, fmt.Errorf("load supplier %s: %w", id, err)
	}
	t.suppliers[id] = s
	return s, nil
}

func (t *Tx) sale(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	if s, ok := t.sales[id]; ok {
		return s, nil
	}
	if _, ok := t.missing[id]; ok {
		return nil, shared.NewNotFoundError("Sale", id)
	}
	s, err := t.repos.SaleRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			t.missing[id] = struct{}{}
			return nil, shared.NewNotFoundError("Sale", id)
		}
		return nil, fmt.Errorf("load sale %s: %w", id, err)
	}
	t.sales[id] = s
	return s, nil
}

// ApplyPayment increments the sale's amount paid by amount. It fails with a
// NotFound error for a missing sale and with a validation error when amount
// exceeds what is still outstanding on the sale.
func (t *Tx) ApplyPayment(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal) (*trade.Sale, error) {
	sale, err := t.sale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.ApplyPayment(amount); err != nil {
		return nil, err
	}
	if err := t.repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
		return nil, fmt.Errorf("save sale %s: %w", saleID, err)
	}
	return sale, nil
}

// RevertPayment decrements the sale's amount paid by amount, clamped at zero.
// A missing sale is not an error: nothing is written and an integrity warning
// is recorded because the restored amount has nowhere to go.
func (t *Tx) RevertPayment(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal, source Source) error {
	sale, err := t.sale(ctx, saleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			t.warn(finance.IntegrityWarning{
				Kind:     finance.IntegrityMissingObligation,
				EntityID: saleID,
				SourceID: source.ID,
				Expected: amount,
				Actual:   decimal.Zero,
				Detail:   fmt.Sprintf("revert of %s from %s skipped, sale does not exist", amount, source.Type),
			})
			return nil
		}
		return err
	}

	reverted := sale.RevertPayment(amount)
	if reverted.LessThan(amount) {
		t.warn(finance.IntegrityWarning{
			Kind:     finance.IntegrityRevertClamped,
			EntityID: saleID,
			SourceID: source.ID,
			Expected: amount,
			Actual:   reverted,
			Detail:   "amount paid was lower than the allocation being reverted",
		})
	}
	if err := t.repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
		return fmt.Errorf("save sale %s: %w", saleID, err)
	}
	return nil
}

// AdjustCustomer moves a customer's outstanding balance by delta and appends
// the matching journal entry
func (t *Tx) AdjustCustomer(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal, source Source, action finance.EntryAction) (*partner.Customer, error) {
	c, err := t.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return c, nil
	}
	if err := t.adjust(ctx, c, delta, source, action); err != nil {
		return nil, err
	}
	if err := t.repos.CustomerRepo().SaveWithLock(ctx, c); err != nil {
		return nil, fmt.Errorf("save customer %s: %w", customerID, err)
	}
	return c, nil
}

// AdjustSupplier moves a supplier's outstanding balance by delta and appends
// the matching journal entry. The balance is unbounded in both directions.
func (t *Tx) AdjustSupplier(ctx context.Context, supplierID uuid.UUID, delta decimal.Decimal, source Source, action finance.EntryAction) (*partner.Supplier, error) {
	s, err := t.supplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return s, nil
	}
	if err := t.adjust(ctx, s, delta, source, action); err != nil {
		return nil, err
	}
	if err := t.repos.SupplierRepo().SaveWithLock(ctx, s); err != nil {
		return nil, fmt.Errorf("save supplier %s: %w", supplierID, err)
	}
	return s, nil
}

func (t *Tx) adjust(ctx context.Context, h partner.Holder, delta decimal.Decimal, source Source, action finance.EntryAction) error {
	before, after := h.AdjustOutstanding(delta, reasonFor(source, action))
	entry := finance.NewLedgerEntry(h.HolderType(), h.GetID(), source.Type, source.ID, action, before, after)
	if err := t.repos.LedgerEntryRepo().Append(ctx, entry); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "holder_adjusted",
		telemetry.SpanAttrHolderType, string(h.HolderType()),
		telemetry.SpanAttrHolderID, h.GetID().String(),
	)
	t.Track(h)
	return nil
}

func reasonFor(source Source, action finance.EntryAction) string {
	return string(action) + ":" + string(source.Type)
}

// flush writes the events of every tracked aggregate to the outbox
func (t *Tx) flush(ctx context.Context) error {
	seen := make(map[shared.AggregateRoot]struct{}, len(t.tracked))
	var events []shared.DomainEvent
	for _, agg := range t.tracked {
		if _, ok := seen[agg]; ok {
			continue
		}
		seen[agg] = struct{}{}
		events = append(events, agg.GetDomainEvents()...)
	}
	if len(events) == 0 {
		return nil
	}
	if err := t.repos.Outbox().Write(ctx, events...); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	for agg := range seen {
		agg.ClearDomainEvents()
	}
	return nil
}
