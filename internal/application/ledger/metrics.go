package ledger

import (
	"context"
	"time"
)

// Operation outcomes reported to MetricsRecorder
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// MetricsRecorder receives ledger engine measurements
type MetricsRecorder interface {
	RecordOperation(ctx context.Context, operation, outcome string, duration time.Duration)
	RecordRetry(ctx context.Context, operation string)
	RecordIntegrityWarning(ctx context.Context, kind string)
}

// NopMetrics discards all measurements
type NopMetrics struct{}

func (NopMetrics) RecordOperation(context.Context, string, string, time.Duration) {}
func (NopMetrics) RecordRetry(context.Context, string)                             {}
func (NopMetrics) RecordIntegrityWarning(context.Context, string)                  {}
