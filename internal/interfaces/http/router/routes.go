package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tamarind/backend/internal/interfaces/http/handler"
	"github.com/tamarind/backend/internal/interfaces/http/middleware"
)

// Handlers groups the API handlers mounted by LedgerRoutes
type Handlers struct {
	Customer        *handler.CustomerHandler
	Supplier        *handler.SupplierHandler
	Sale            *handler.SaleHandler
	Purchase        *handler.PurchaseHandler
	Receipt         *handler.ReceiptHandler
	SupplierPayment *handler.SupplierPaymentHandler
	Ledger          *handler.LedgerHandler
	Outbox          *handler.OutboxHandler
	System          *handler.SystemHandler
}

// LedgerRoutes builds the partner, trade, finance and system groups.
// idempotency guards the POST endpoints that move balances; nil skips it.
func LedgerRoutes(h Handlers, idempotency gin.HandlerFunc) []RouteRegistrar {
	guard := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if idempotency == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{idempotency, fn}
	}

	partnerGroup := NewDomainGroup("partner", "/partner")
	partnerGroup.Group("customers", "/customers").
		POST("", guard(h.Customer.Create)...).
		GET("", h.Customer.List).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		GET("/:id/ledger", h.Customer.Ledger)
	partnerGroup.Group("suppliers", "/suppliers").
		POST("", guard(h.Supplier.Create)...).
		GET("", h.Supplier.List).
		GET("/:id", h.Supplier.GetByID).
		PUT("/:id", h.Supplier.Update).
		GET("/:id/ledger", h.Supplier.Ledger)

	tradeGroup := NewDomainGroup("trade", "/trade")
	tradeGroup.Group("sales", "/sales").
		POST("", guard(h.Sale.Create)...).
		GET("", h.Sale.List).
		GET("/:id", h.Sale.GetByID).
		DELETE("/:id", h.Sale.Delete)
	tradeGroup.Group("purchases", "/purchases").
		POST("", guard(h.Purchase.Create)...).
		GET("", h.Purchase.List).
		GET("/:id", h.Purchase.GetByID).
		DELETE("/:id", h.Purchase.Delete)

	financeGroup := NewDomainGroup("finance", "/finance")
	financeGroup.Group("receipts", "/receipts").
		POST("", guard(h.Receipt.Create)...).
		GET("", h.Receipt.List).
		GET("/:id", h.Receipt.GetByID).
		PUT("/:id", h.Receipt.Update).
		DELETE("/:id", h.Receipt.Delete)
	financeGroup.Group("supplier-payments", "/supplier-payments").
		POST("", guard(h.SupplierPayment.Create)...).
		GET("", h.SupplierPayment.List).
		GET("/:id", h.SupplierPayment.GetByID).
		PUT("/:id", h.SupplierPayment.Update).
		DELETE("/:id", h.SupplierPayment.Delete)
	financeGroup.Group("ledger", "/ledger").
		POST("/reconcile", h.Ledger.Reconcile)

	systemGroup := NewDomainGroup("system", "/system")
	systemGroup.GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)
	systemGroup.Group("outbox", "/outbox").
		GET("/stats", h.Outbox.GetStats).
		GET("/dead", h.Outbox.GetDeadLetterEntries).
		POST("/dead/retry-all", h.Outbox.RetryAllDeadEntries).
		POST("/cleanup", h.Outbox.Cleanup).
		GET("/:id", h.Outbox.GetEntry).
		POST("/:id/retry", h.Outbox.RetryDeadEntry)

	return []RouteRegistrar{partnerGroup, tradeGroup, financeGroup, systemGroup}
}

// RegisterHealthRoutes mounts /health and /health/ready outside the versioned API
func RegisterHealthRoutes(engine *gin.Engine, health *handler.HealthHandler) {
	engine.GET("/health", health.Live)
	engine.GET("/health/ready", health.Ready)
}

// RegisterSwagger mounts the API docs behind SwaggerProtection
func RegisterSwagger(engine *gin.Engine, cfg middleware.SwaggerConfig) {
	docs := engine.Group("/swagger", middleware.SwaggerProtection(cfg))
	docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
