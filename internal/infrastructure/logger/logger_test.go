package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultAndProductionConfig(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "info", dev.Level)
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, defaultTimeFormat, prod.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"console to stdout", &Config{Level: "debug", Format: "console", Output: "stdout"}},
		{"json to stderr", &Config{Level: "warn", Format: "json", Output: "stderr"}},
		{"empty output", &Config{Level: "info", Format: "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
			assert.Equal(t, defaultTimeFormat, tt.cfg.TimeFormat)
		})
	}
}

func TestNew_TeesExtraCores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	l, err := New(&Config{Level: "error", Format: "json", Output: "stderr"}, core)
	require.NoError(t, err)

	l.Info("receipt created", zap.String("receipt_id", "r-1"))

	// the observer core keeps its own level
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "receipt created", entry.Message)
	assert.Equal(t, "r-1", entry.ContextMap()["receipt_id"])
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := NewForEnvironment(env)
		require.NoError(t, err, env)
		assert.NotNil(t, l)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestCreateWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("written to file")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestCreateWriter_UnwritablePathFallsBackToStdout(t *testing.T) {
	w := createWriter(filepath.Join(t.TempDir(), "missing", "dir", "app.log"))
	assert.NotNil(t, w)
}

func TestJSONEncoderFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Level: "info", Format: "json", TimeFormat: defaultTimeFormat}
	l := zap.New(zapcore.NewCore(createEncoder(cfg), zapcore.AddSync(&buf), zapcore.InfoLevel))

	l.Info("balance adjusted", zap.String("holder_id", "c-1"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "balance adjusted", decoded["msg"])
	assert.Equal(t, "info", decoded["level"])
	assert.Equal(t, "c-1", decoded["holder_id"])
	assert.Contains(t, decoded, "time")
}

func TestConsoleEncoder(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Level: "info", Format: "console", TimeFormat: defaultTimeFormat}
	l := zap.New(zapcore.NewCore(createEncoder(cfg), zapcore.AddSync(&buf), zapcore.InfoLevel))

	l.Warn("reconcile drift")
	assert.Contains(t, buf.String(), "reconcile drift")
	assert.Contains(t, buf.String(), "WARN")
}
