// Package ledger implements the ledger adjustment engine: the only component
// allowed to move a holder's outstanding balance or a sale's amount paid.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/logger"
	"github.com/tamarind/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultMaxAttempts is how many times a transaction is tried when it keeps
// losing optimistic version checks to concurrent writers.
const DefaultMaxAttempts = 3

// Engine runs ledger operations as single transactions
type Engine struct {
	scope       TransactionScope
	logger      *zap.Logger
	metrics     MetricsRecorder
	maxAttempts int
	now         func() time.Time
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithMetrics sets the recorder for operation and integrity metrics
func WithMetrics(m MetricsRecorder) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithMaxAttempts bounds optimistic-conflict retries
func WithMaxAttempts(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithClock overrides the time source used for soft-delete timestamps
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a ledger engine over the given transaction scope
func NewEngine(scope TransactionScope, zapLogger *zap.Logger, opts ...EngineOption) *Engine {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	e := &Engine{
		scope:       scope,
		logger:      zapLogger,
		metrics:     NopMetrics{},
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock's current time
func (e *Engine) Now() time.Time {
	return e.now()
}

// Run executes fn in one transaction. Any error rolls back every write made
// through tx. A lost optimistic version check restarts fn from scratch in a
// fresh transaction, up to the configured number of attempts; nothing else is
// retried. Store failures are returned as *shared.TransactionError.
func (e *Engine) Run(ctx context.Context, operation string, fn func(ctx context.Context, tx *Tx) error) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", operation,
		telemetry.WithAttribute(telemetry.SpanAttrOperation, operation))
	defer span.End()

	start := time.Now()
	var err error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		telemetry.SetAttribute(span, telemetry.SpanAttrAttempt, attempt)
		telemetry.WithOperationLabel(ctx, operation, func(ctx context.Context) {
			err = e.runOnce(ctx, operation, fn)
		})
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
		if attempt < e.maxAttempts {
			e.metrics.RecordRetry(ctx, operation)
			logger.WithLogger(ctx, e.logger).Debug("ledger transaction lost version check, retrying",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
			)
		}
	}

	e.metrics.RecordOperation(ctx, operation, outcomeOf(err), time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetOK(span)
	return nil
}

func (e *Engine) runOnce(ctx context.Context, operation string, fn func(ctx context.Context, tx *Tx) error) error {
	var warnings []finance.IntegrityWarning
	err := e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx := newTx(e, repos)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if err := tx.flush(ctx); err != nil {
			return err
		}
		warnings = tx.warnings
		return nil
	})
	if err != nil {
		if shared.IsDomainError(err) {
			return err
		}
		var txErr *shared.TransactionError
		if errors.As(err, &txErr) {
			return err
		}
		return shared.NewTransactionError(operation, err)
	}
	// Warnings are reported only once the transaction that observed them committed.
	for _, w := range warnings {
		e.reportIntegrityWarning(ctx, operation, w)
	}
	return nil
}

func (e *Engine) reportIntegrityWarning(ctx context.Context, operation string, w finance.IntegrityWarning) {
	e.metrics.RecordIntegrityWarning(ctx, string(w.Kind))
	logger.WithLogger(ctx, e.logger).Warn("ledger integrity warning",
		zap.String("operation", operation),
		zap.String("kind", string(w.Kind)),
		zap.String("entity_id", w.EntityID.String()),
		zap.String("source_id", w.SourceID.String()),
		zap.String("expected", w.Expected.String()),
		zap.String("actual", w.Actual.String()),
		zap.String("detail", w.Detail),
	)
}

// ReportIntegrityWarnings logs and counts warnings found outside a transaction,
// such as by reconciliation.
func (e *Engine) ReportIntegrityWarnings(ctx context.Context, operation string, warnings []finance.IntegrityWarning) {
	for _, w := range warnings {
		e.reportIntegrityWarning(ctx, operation, w)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrConcurrencyConflict):
		return OutcomeConflict
	case shared.IsDomainError(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
