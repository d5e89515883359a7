package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func query(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.ignoreRecordNotFoundError)

	gl, _ = newObservedGorm(gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	warn, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, warn.logLevel)
}

func TestGormLogger_MessageLevels(t *testing.T) {
	gl, logs := newObservedGorm(gormlogger.Warn)
	ctx := context.Background()

	gl.Info(ctx, "migrated %d tables", 8)
	gl.Warn(ctx, "deprecated %s", "option")
	gl.Error(ctx, "failed %s", "connect")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "deprecated option", logs.All()[0].Message)
	assert.Equal(t, "failed connect", logs.All()[1].Message)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		begin   time.Time
		err     error
		opts    []GormLoggerOption
		message string
		zlevel  zapcore.Level
	}{
		{"query", gormlogger.Info, time.Now(), nil, nil, "SQL Query", zapcore.DebugLevel},
		{"error", gormlogger.Error, time.Now(), errors.New("deadlock detected"), nil, "SQL Error", zapcore.ErrorLevel},
		{"slow", gormlogger.Warn, time.Now().Add(-time.Second), nil, nil, "SLOW SQL >= 200ms", zapcore.WarnLevel},
		{"not found kept", gormlogger.Error, time.Now(), gormlogger.ErrRecordNotFound,
			[]GormLoggerOption{WithIgnoreRecordNotFoundError(false)}, "SQL Error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, logs := newObservedGorm(tt.level, tt.opts...)
			gl.Trace(context.Background(), tt.begin, query("SELECT * FROM customers", 1), tt.err)

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.message, logs.All()[0].Message)
			assert.Equal(t, tt.zlevel, logs.All()[0].Level)
			assert.Equal(t, "SELECT * FROM customers", logs.All()[0].ContextMap()["sql"])
		})
	}
}

func TestGormLogger_TraceSuppressed(t *testing.T) {
	gl, logs := newObservedGorm(gormlogger.Silent)
	gl.Trace(context.Background(), time.Now(), query("SELECT 1", 1), errors.New("boom"))

	gl, logs2 := newObservedGorm(gormlogger.Error)
	gl.Trace(context.Background(), time.Now(), query("SELECT 1", 0), gormlogger.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
	assert.Zero(t, logs2.Len())
}

func TestGormLogger_TraceCarriesRequestFields(t *testing.T) {
	gl, logs := newObservedGorm(gormlogger.Info)
	ctx := context.WithValue(spanContext(t), RequestIDKey, "req-1")
	ctx = WithOperation(ctx, "receipt.update")

	gl.Trace(ctx, time.Now(), query("SELECT * FROM sales FOR UPDATE", 2), nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "receipt.update", fields["operation"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.EqualValues(t, 2, fields["rows"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), "level %q", in)
	}
}
