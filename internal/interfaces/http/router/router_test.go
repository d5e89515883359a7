package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/interfaces/http/handler"
	"github.com/tamarind/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	hits := 0
	r := NewRouter(engine, WithAPIMiddleware(func(c *gin.Context) {
		hits++
		c.Next()
	}))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()
	engine.GET("/outside", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, 1, hits)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outside", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits, "API middleware must not run outside /api")
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("finance", "/finance")
		assert.Equal(t, "finance", g.Name())
		assert.Equal(t, "/finance", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/items", ok).POST("/items", ok).PUT("/items/:id", ok).DELETE("/items/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/test/items"},
			{http.MethodPost, "/api/v1/test/items"},
			{http.MethodPut, "/api/v1/test/items/1"},
			{http.MethodDelete, "/api/v1/test/items/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("parent", "/parent").Use(func(c *gin.Context) {
			c.Header("X-Parent", "1")
			c.Next()
		})
		g.Group("child", "/child").GET("/leaf", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parent/child/leaf", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-Parent"))
	})
}

func testHandlers() Handlers {
	return Handlers{
		Customer:        handler.NewCustomerHandler(nil, nil),
		Supplier:        handler.NewSupplierHandler(nil, nil),
		Sale:            handler.NewSaleHandler(nil),
		Purchase:        handler.NewPurchaseHandler(nil),
		Receipt:         handler.NewReceiptHandler(nil),
		SupplierPayment: handler.NewSupplierPaymentHandler(nil),
		Ledger:          handler.NewLedgerHandler(nil),
		Outbox:          handler.NewOutboxHandler(nil),
		System:          handler.NewSystemHandler("Tamarind Ledger API", "test"),
	}
}

func TestLedgerRoutes_Table(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(LedgerRoutes(testHandlers(), nil)...).Setup()

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/partner/customers",
		"GET /api/v1/partner/customers",
		"GET /api/v1/partner/customers/:id",
		"PUT /api/v1/partner/customers/:id",
		"GET /api/v1/partner/customers/:id/ledger",
		"POST /api/v1/partner/suppliers",
		"GET /api/v1/partner/suppliers",
		"GET /api/v1/partner/suppliers/:id",
		"PUT /api/v1/partner/suppliers/:id",
		"GET /api/v1/partner/suppliers/:id/ledger",
		"POST /api/v1/trade/sales",
		"GET /api/v1/trade/sales",
		"GET /api/v1/trade/sales/:id",
		"DELETE /api/v1/trade/sales/:id",
		"POST /api/v1/trade/purchases",
		"GET /api/v1/trade/purchases",
		"GET /api/v1/trade/purchases/:id",
		"DELETE /api/v1/trade/purchases/:id",
		"POST /api/v1/finance/receipts",
		"GET /api/v1/finance/receipts",
		"GET /api/v1/finance/receipts/:id",
		"PUT /api/v1/finance/receipts/:id",
		"DELETE /api/v1/finance/receipts/:id",
		"POST /api/v1/finance/supplier-payments",
		"GET /api/v1/finance/supplier-payments",
		"GET /api/v1/finance/supplier-payments/:id",
		"PUT /api/v1/finance/supplier-payments/:id",
		"DELETE /api/v1/finance/supplier-payments/:id",
		"POST /api/v1/finance/ledger/reconcile",
		"GET /api/v1/system/info",
		"GET /api/v1/system/ping",
		"GET /api/v1/system/outbox/stats",
		"GET /api/v1/system/outbox/dead",
		"POST /api/v1/system/outbox/dead/retry-all",
		"POST /api/v1/system/outbox/cleanup",
		"GET /api/v1/system/outbox/:id",
		"POST /api/v1/system/outbox/:id/retry",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.Len(t, engine.Routes(), len(expected))
}

func TestLedgerRoutes_IdempotencyGuardsBalancePosts(t *testing.T) {
	var guarded []string
	guard := func(c *gin.Context) {
		guarded = append(guarded, c.FullPath())
		c.AbortWithStatus(http.StatusTeapot)
	}

	engine := gin.New()
	NewRouter(engine).Register(LedgerRoutes(testHandlers(), guard)...).Setup()

	for _, path := range []string{
		"/api/v1/partner/customers",
		"/api/v1/partner/suppliers",
		"/api/v1/trade/sales",
		"/api/v1/trade/purchases",
		"/api/v1/finance/receipts",
		"/api/v1/finance/supplier-payments",
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusTeapot, w.Code, path)
	}
	assert.Len(t, guarded, 6)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, guarded, 6)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping() error { return s.err }

func TestRegisterHealthRoutes(t *testing.T) {
	t.Run("ready when database answers", func(t *testing.T) {
		engine := gin.New()
		RegisterHealthRoutes(engine, handler.NewHealthHandler(stubPinger{}, nil))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("not ready when database is down", func(t *testing.T) {
		engine := gin.New()
		RegisterHealthRoutes(engine, handler.NewHealthHandler(stubPinger{err: errors.New("down")}, nil))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code, "liveness ignores dependencies")

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"error"`)
	})
}

func TestRegisterSwagger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		engine := gin.New()
		RegisterSwagger(engine, middleware.SwaggerConfig{Enabled: false})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("restricted by IP", func(t *testing.T) {
		engine := gin.New()
		RegisterSwagger(engine, middleware.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}})

		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = "192.168.0.10:5555"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("serves the UI to allowed clients", func(t *testing.T) {
		engine := gin.New()
		RegisterSwagger(engine, middleware.SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}})

		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = "127.0.0.1:5555"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
