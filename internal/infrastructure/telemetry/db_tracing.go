package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound variables; never in production
	SlowQueryThresh time.Duration // defaults to 200ms
	DBSystem        string        // "postgresql" or "sqlite"
}

// DBTracingPlugin registers otelgorm plus callbacks that flag slow
// statements and row-lock reads on the active span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a plugin for cfg.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryTimeKey struct{}

// Register installs otelgorm and the timing callbacks on db.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("ledger_timing:before_create", markStart) },
		func() error { return cb.Create().After("gorm:create").Register("ledger_timing:after_create", p.annotate) },
		func() error { return cb.Query().Before("gorm:query").Register("ledger_timing:before_query", markStart) },
		func() error { return cb.Query().After("gorm:query").Register("ledger_timing:after_query", p.annotate) },
		func() error { return cb.Update().Before("gorm:update").Register("ledger_timing:before_update", markStart) },
		func() error { return cb.Update().After("gorm:update").Register("ledger_timing:after_update", p.annotate) },
		func() error { return cb.Delete().Before("gorm:delete").Register("ledger_timing:before_delete", markStart) },
		func() error { return cb.Delete().After("gorm:delete").Register("ledger_timing:after_delete", p.annotate) },
		func() error { return cb.Row().Before("gorm:row").Register("ledger_timing:before_row", markStart) },
		func() error { return cb.Row().After("gorm:row").Register("ledger_timing:after_row", p.annotate) },
		func() error { return cb.Raw().Before("gorm:raw").Register("ledger_timing:before_raw", markStart) },
		func() error { return cb.Raw().After("gorm:raw").Register("ledger_timing:after_raw", p.annotate) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryTimeKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if _, locked := db.Statement.Clauses["FOR"]; locked {
		span.SetAttributes(attribute.Bool("db.row_lock", true))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryTimeKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
