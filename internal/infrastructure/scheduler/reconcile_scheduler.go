package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	financeapp "github.com/tamarind/backend/internal/application/finance"
	"github.com/tamarind/backend/internal/infrastructure/config"
	"github.com/tamarind/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run status values
const (
	RunStatusRunning = "RUNNING"
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)

// Run triggers
const (
	TriggerSchedule = "SCHEDULE"
	TriggerManual   = "MANUAL"
)

// Reconciler recomputes balances and reports mismatches
type Reconciler interface {
	Reconcile(ctx context.Context) (*financeapp.ReconciliationReport, error)
}

// ReconcileSchedulerConfig holds configuration for the daily reconcile pass
type ReconcileSchedulerConfig struct {
	Enabled       bool
	Hour          int
	Minute        int
	Timeout       time.Duration
	CheckInterval time.Duration
}

// DefaultReconcileSchedulerConfig runs at 02:30 every day
func DefaultReconcileSchedulerConfig() ReconcileSchedulerConfig {
	return ReconcileSchedulerConfig{
		Enabled:       true,
		Hour:          2,
		Minute:        30,
		Timeout:       10 * time.Minute,
		CheckInterval: time.Minute,
	}
}

// ConfigFromLedger builds the scheduler config from the ledger settings
func ConfigFromLedger(cfg config.LedgerConfig) (ReconcileSchedulerConfig, error) {
	out := DefaultReconcileSchedulerConfig()
	out.Enabled = cfg.ReconcileEnabled
	if cfg.ReconcileTimeout > 0 {
		out.Timeout = cfg.ReconcileTimeout
	}
	if cfg.ReconcileSchedule == "" {
		return out, nil
	}
	hour, minute, err := ParseCronSchedule(cfg.ReconcileSchedule)
	if err != nil {
		return out, err
	}
	out.Hour, out.Minute = hour, minute
	return out, nil
}

// RunRepository persists reconcile run records
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordStart stores a new running record and returns its id
func (r *RunRepository) RecordStart(ctx context.Context, trigger string, at time.Time) (uuid.UUID, error) {
	record := &models.ReconcileRunModel{
		ID:          uuid.New(),
		TriggeredBy: trigger,
		Status:      RunStatusRunning,
		StartedAt:   at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordComplete closes a run record
func (r *RunRepository) RecordComplete(ctx context.Context, id uuid.UUID, warnings int, runErr error) error {
	now := time.Now()
	status, msg := RunStatusSuccess, ""
	if runErr != nil {
		status, msg = RunStatusFailed, runErr.Error()
	}
	return r.db.WithContext(ctx).
		Model(&models.ReconcileRunModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"warnings":     warnings,
			"error":        msg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// Latest returns the most recent run, or nil when none exist
func (r *RunRepository) Latest(ctx context.Context) (*models.ReconcileRunModel, error) {
	var rows []models.ReconcileRunModel
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ReconcileScheduler runs the ledger reconcile pass once a day
type ReconcileScheduler struct {
	config     ReconcileSchedulerConfig
	reconciler Reconciler
	runs       *RunRepository
	logger     *zap.Logger
	now        func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	executing bool

	lastRunDate string
	lastRunAt   *time.Time
	lastReport  *financeapp.ReconciliationReport
}

// NewReconcileScheduler creates a new scheduler. runs may be nil.
func NewReconcileScheduler(
	config ReconcileSchedulerConfig,
	reconciler Reconciler,
	runs *RunRepository,
	logger *zap.Logger,
) *ReconcileScheduler {
	defaults := DefaultReconcileSchedulerConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	return &ReconcileScheduler{
		config:     config,
		reconciler: reconciler,
		runs:       runs,
		logger:     logger,
		now:        time.Now,
	}
}

// Start launches the check loop. A disabled scheduler starts as a no-op.
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Reconcile scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Reconcile scheduler started",
		zap.Int("hour", s.config.Hour),
		zap.Int("minute", s.config.Minute),
		zap.Time("next_run_at", s.NextRunAt()),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight run to finish
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconcile scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReconcileScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ReconcileScheduler) tick(ctx context.Context) {
	now := s.now()
	if !s.due(now) {
		return
	}
	if _, err := s.run(ctx, TriggerSchedule); err != nil && !errors.Is(err, ErrRunInProgress) {
		s.logger.Error("Scheduled reconcile failed", zap.Error(err))
	}
}

// due reports whether the configured time has been reached today and no
// run happened yet for this date
func (s *ReconcileScheduler) due(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Format(time.DateOnly) == s.lastRunDate {
		return false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), s.config.Hour, s.config.Minute, 0, 0, now.Location())
	return !now.Before(target)
}

// RunNow executes a reconcile pass immediately and waits for the report
func (s *ReconcileScheduler) RunNow(ctx context.Context) (*financeapp.ReconciliationReport, error) {
	return s.run(ctx, TriggerManual)
}

func (s *ReconcileScheduler) run(ctx context.Context, trigger string) (*financeapp.ReconciliationReport, error) {
	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.executing = true
	started := s.now()
	if trigger == TriggerSchedule {
		s.lastRunDate = started.Format(time.DateOnly)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.executing = false
		s.mu.Unlock()
	}()

	var runID uuid.UUID
	if s.runs != nil {
		id, err := s.runs.RecordStart(ctx, trigger, started)
		if err != nil {
			s.logger.Warn("Failed to record reconcile start", zap.Error(err))
		}
		runID = id
	}

	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	report, err := s.reconciler.Reconcile(runCtx)

	warnings := 0
	if report != nil {
		warnings = len(report.Warnings)
	}
	if s.runs != nil && runID != uuid.Nil {
		if recErr := s.runs.RecordComplete(ctx, runID, warnings, err); recErr != nil {
			s.logger.Warn("Failed to record reconcile completion", zap.Error(recErr))
		}
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastRunAt = &started
	s.lastReport = report
	s.mu.Unlock()

	s.logger.Info("Reconcile finished",
		zap.String("trigger", trigger),
		zap.Int("warnings", warnings),
		zap.Duration("took", s.now().Sub(started)),
	)
	return report, nil
}

// NextRunAt returns when the next scheduled run will occur
func (s *ReconcileScheduler) NextRunAt() time.Time {
	return nextRunAfter(s.now(), s.config.Hour, s.config.Minute)
}

// LastRunAt returns when the last successful run started
func (s *ReconcileScheduler) LastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

// LastReport returns the report of the last successful run
func (s *ReconcileScheduler) LastReport() *financeapp.ReconciliationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}
