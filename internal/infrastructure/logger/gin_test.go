package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(l *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-123")
		c.Next()
	})
	r.Use(GinMiddleware(l))
	return r
}

func httpEntries(logs *observer.ObservedLogs) []observer.LoggedEntry {
	return logs.FilterMessage("HTTP Request").All()
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newTestRouter(zap.New(core))
	r.GET("/api/v1/customers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers?page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	entries := httpEntries(logs)
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/customers", fields["path"])
	assert.Equal(t, "page=2", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Contains(t, fields, "latency")
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			r := newTestRouter(zap.New(core))
			r.POST("/x", func(c *gin.Context) { c.Status(tt.status) })

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

			entries := httpEntries(logs)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
		})
	}
}

func TestGinMiddleware_PropagatesRequestContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newTestRouter(zap.New(core))

	var requestID, idemKey string
	r.POST("/api/v1/receipts", func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID = GetRequestID(ctx)
		idemKey = GetIdempotencyKey(ctx)
		L(ctx).Info("handler")
		assert.Same(t, GetGinLogger(c), FromContext(ctx))
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", nil)
	req.Header.Set("Idempotency-Key", "idem-abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, "idem-abc", idemKey)

	handler := logs.FilterMessage("handler").All()
	require.Len(t, handler, 1)
	assert.Equal(t, "idem-abc", handler[0].ContextMap()["idempotency_key"])
	assert.Equal(t, "/api/v1/receipts", handler[0].ContextMap()["path"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("ledger exploded") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ledger exploded", entries[0].ContextMap()["error"])
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))

	c.Set(GinLoggerKey, "wrong type")
	assert.NotNil(t, GetGinLogger(c))
}
