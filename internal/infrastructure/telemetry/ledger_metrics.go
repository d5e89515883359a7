package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMeterName is the instrumentation scope of the ledger instruments
const LedgerMeterName = "tamarind-backend/ledger"

// LedgerMetrics records ledger engine activity and the outstanding totals
// computed by the last reconcile pass.
type LedgerMetrics struct {
	operations   *Counter
	duration     *Histogram
	retries      *Counter
	warnings     *Counter
	movements    *Histogram
	receivable   metric.Float64ObservableGauge
	payable      metric.Float64ObservableGauge
	registration metric.Registration

	mu              sync.RWMutex
	receivableTotal float64
	payableTotal    float64
}

// NewLedgerMetrics creates the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.operations, err = NewCounter(meter, "ledger_operation_total",
		"Ledger operations by outcome", "{operation}"); err != nil {
		return nil, err
	}
	if m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_operation_duration_seconds",
		Description: "Ledger operation latency including retries",
		Unit:        "s",
		Boundaries:  LedgerDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.retries, err = NewCounter(meter, "ledger_operation_retry_total",
		"Transactions restarted after a lost version check", "{retry}"); err != nil {
		return nil, err
	}
	if m.warnings, err = NewCounter(meter, "ledger_integrity_warning_total",
		"Integrity warnings by kind", "{warning}"); err != nil {
		return nil, err
	}
	if m.movements, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_balance_movement",
		Description: "Absolute size of holder balance changes",
		Unit:        "{currency}",
	}); err != nil {
		return nil, err
	}

	if m.receivable, err = meter.Float64ObservableGauge("ledger_outstanding_receivable",
		metric.WithDescription("Sum of customer outstanding balances at the last reconcile")); err != nil {
		return nil, err
	}
	if m.payable, err = meter.Float64ObservableGauge("ledger_outstanding_payable",
		metric.WithDescription("Sum of supplier outstanding balances at the last reconcile")); err != nil {
		return nil, err
	}
	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		m.mu.RLock()
		defer m.mu.RUnlock()
		o.ObserveFloat64(m.receivable, m.receivableTotal)
		o.ObserveFloat64(m.payable, m.payableTotal)
		return nil
	}, m.receivable, m.payable)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOperation counts a finished operation and its latency
func (m *LedgerMetrics) RecordOperation(ctx context.Context, operation, outcome string, d time.Duration) {
	attrs := []attribute.KeyValue{AttrOperation.String(operation), AttrOutcome.String(outcome)}
	m.operations.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, d, attrs...)
}

// RecordRetry counts one restarted attempt
func (m *LedgerMetrics) RecordRetry(ctx context.Context, operation string) {
	m.retries.Inc(ctx, AttrOperation.String(operation))
}

// RecordIntegrityWarning counts a warning by kind
func (m *LedgerMetrics) RecordIntegrityWarning(ctx context.Context, kind string) {
	m.warnings.Inc(ctx, AttrWarningKind.String(kind))
}

// ObserveBalanceChange records the size of a committed balance movement
func (m *LedgerMetrics) ObserveBalanceChange(ctx context.Context, holderType string, delta float64) {
	if delta < 0 {
		delta = -delta
	}
	m.movements.Record(ctx, delta, AttrHolderType.String(holderType))
}

// SetOutstandingTotals stores the totals reported by the observable gauges
func (m *LedgerMetrics) SetOutstandingTotals(receivable, payable decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivableTotal = receivable.InexactFloat64()
	m.payableTotal = payable.InexactFloat64()
}

// Close unregisters the gauge callback
func (m *LedgerMetrics) Close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
