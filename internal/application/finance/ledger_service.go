package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/telemetry"
)

// BalanceGauge receives the totals computed by a reconcile pass
type BalanceGauge interface {
	SetOutstandingTotals(receivable, payable decimal.Decimal)
}

// LedgerService exposes holder journals and checks the materialized balances
// against the documents they were derived from.
type LedgerService struct {
	engine    *ledger.Engine
	entries   finance.LedgerEntryRepository
	reader    finance.ReconciliationReader
	customers partner.CustomerRepository
	suppliers partner.SupplierRepository
	gauge     BalanceGauge
}

// LedgerServiceOption configures a LedgerService
type LedgerServiceOption func(*LedgerService)

// WithBalanceGauge publishes receivable and payable totals after each reconcile
func WithBalanceGauge(g BalanceGauge) LedgerServiceOption {
	return func(s *LedgerService) {
		s.gauge = g
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	engine *ledger.Engine,
	entries finance.LedgerEntryRepository,
	reader finance.ReconciliationReader,
	customers partner.CustomerRepository,
	suppliers partner.SupplierRepository,
	opts ...LedgerServiceOption,
) *LedgerService {
	s := &LedgerService{
		engine:    engine,
		entries:   entries,
		reader:    reader,
		customers: customers,
		suppliers: suppliers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetHolderLedger returns a page of a holder's journal, oldest first
func (s *LedgerService) GetHolderLedger(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	if err := s.ensureHolder(ctx, holderType, holderID); err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	entries, err := s.entries.FindByHolder(ctx, holderType, holderID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entries.CountByHolder(ctx, holderType, holderID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		items[i] = ToLedgerEntryResponse(&entries[i])
	}
	return items, total, nil
}

func (s *LedgerService) ensureHolder(ctx context.Context, holderType partner.HolderType, id uuid.UUID) error {
	var err error
	switch holderType {
	case partner.HolderTypeCustomer:
		_, err = s.customers.FindByID(ctx, id)
	case partner.HolderTypeSupplier:
		_, err = s.suppliers.FindByID(ctx, id)
	default:
		return shared.NewValidationError("Unknown holder type")
	}
	if errors.Is(err, shared.ErrNotFound) {
		name := "Customer"
		if holderType == partner.HolderTypeSupplier {
			name = "Supplier"
		}
		return shared.NewNotFoundError(name, id)
	}
	return err
}

// Reconcile recomputes every customer balance, supplier balance and sale
// amount paid from the stored documents and reports each mismatch as an
// integrity warning. It never writes balances.
func (s *LedgerService) Reconcile(ctx context.Context) (*ReconciliationReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "reconcile")
	defer span.End()

	customers, err := s.reader.CustomerBalances(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("reconcile customers: %w", err)
	}
	suppliers, err := s.reader.SupplierBalances(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("reconcile suppliers: %w", err)
	}
	sales, err := s.reader.SalePaidAmounts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("reconcile sales: %w", err)
	}

	report := &ReconciliationReport{
		CheckedAt:        s.engine.Now(),
		CustomersChecked: len(customers),
		SuppliersChecked: len(suppliers),
		SalesChecked:     len(sales),
		TotalReceivable:  decimal.Zero,
		TotalPayable:     decimal.Zero,
		Warnings:         []finance.IntegrityWarning{},
	}

	for _, b := range customers {
		report.TotalReceivable = report.TotalReceivable.Add(b.Stored)
		if w, ok := balanceWarning(b); ok {
			report.Warnings = append(report.Warnings, w)
		}
	}
	for _, b := range suppliers {
		report.TotalPayable = report.TotalPayable.Add(b.Stored)
		if w, ok := balanceWarning(b); ok {
			report.Warnings = append(report.Warnings, w)
		}
	}
	for _, sp := range sales {
		if !sp.Stored.Equal(sp.Allocated) {
			report.Warnings = append(report.Warnings, finance.IntegrityWarning{
				Kind:     finance.IntegrityAmountPaidMismatch,
				EntityID: sp.SaleID,
				Expected: sp.Allocated,
				Actual:   sp.Stored,
				Detail:   "sale amount paid differs from its active receipt allocations",
			})
		}
	}

	s.engine.ReportIntegrityWarnings(ctx, "reconcile", report.Warnings)
	if s.gauge != nil {
		s.gauge.SetOutstandingTotals(report.TotalReceivable, report.TotalPayable)
	}
	telemetry.SetAttributes(span,
		"reconcile.warnings", len(report.Warnings),
		"reconcile.customers", len(customers),
		"reconcile.suppliers", len(suppliers),
	)
	return report, nil
}

func balanceWarning(b finance.BalanceSnapshot) (finance.IntegrityWarning, bool) {
	if b.Stored.Equal(b.Expected) {
		return finance.IntegrityWarning{}, false
	}
	return finance.IntegrityWarning{
		Kind:     finance.IntegrityHolderBalanceMismatch,
		EntityID: b.HolderID,
		Expected: b.Expected,
		Actual:   b.Stored,
		Detail:   fmt.Sprintf("%s %s outstanding balance differs from its documents", b.HolderType, b.Code),
	}, true
}
