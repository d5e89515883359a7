package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	eventapp "github.com/tamarind/backend/internal/application/event"
	financeapp "github.com/tamarind/backend/internal/application/finance"
	"github.com/tamarind/backend/internal/application/ledger"
	partnerapp "github.com/tamarind/backend/internal/application/partner"
	tradeapp "github.com/tamarind/backend/internal/application/trade"
	"github.com/tamarind/backend/internal/infrastructure/cache"
	"github.com/tamarind/backend/internal/infrastructure/config"
	"github.com/tamarind/backend/internal/infrastructure/event"
	"github.com/tamarind/backend/internal/infrastructure/logger"
	"github.com/tamarind/backend/internal/infrastructure/persistence"
	"github.com/tamarind/backend/internal/infrastructure/scheduler"
	"github.com/tamarind/backend/internal/infrastructure/telemetry"
	"github.com/tamarind/backend/internal/interfaces/http/handler"
	"github.com/tamarind/backend/internal/interfaces/http/middleware"
	"github.com/tamarind/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/tamarind/backend/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Tamarind Ledger API
//	@version		1.0
//	@description	Receivable and payable ledger for a tamarind trading business.

//	@contact.name	Tamarind Backend
//	@contact.url	https://github.com/tamarind/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Bootstrap logger for the telemetry setup itself
	bootLog, err := newLogger(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log := bootLog
	if logProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(logProvider, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
		if log, err = newLogger(cfg, otelCore); err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Tamarind Ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link spans to profiles", zap.Error(err))
		}
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			bootLog.Error("Error shutting down log provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithRegistrar(dbTracing),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	// Idempotency store shared by the HTTP guard and the event handlers
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithKeyPrefix(cfg.Idempotency.KeyPrefix),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := storeFactory.CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Ledger engine and services
	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("tamarind/ledger"))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}
	defer func() {
		_ = ledgerMetrics.Close()
	}()

	eventSerializer := event.NewLedgerEventSerializer()
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	scope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)
	engine := ledger.NewEngine(scope, log,
		ledger.WithMetrics(ledgerMetrics),
		ledger.WithMaxAttempts(cfg.Ledger.MaxAttempts),
	)

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	customerService := partnerapp.NewCustomerService(engine, customerRepo)
	supplierService := partnerapp.NewSupplierService(engine, supplierRepo)
	saleService := tradeapp.NewSaleService(engine, persistence.NewGormSaleRepository(db.DB))
	purchaseService := tradeapp.NewPurchaseService(engine, persistence.NewGormPurchaseRepository(db.DB))
	receiptService := financeapp.NewReceiptService(engine, persistence.NewGormReceiptRepository(db.DB))
	paymentService := financeapp.NewSupplierPaymentService(engine, persistence.NewGormSupplierPaymentRepository(db.DB))
	ledgerService := financeapp.NewLedgerService(
		engine,
		persistence.NewGormLedgerEntryRepository(db.DB),
		persistence.NewGormReconciliationReader(db.DB),
		customerRepo,
		supplierRepo,
		financeapp.WithBalanceGauge(ledgerMetrics),
	)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Event bus fed by the outbox
	eventBus := event.NewInMemoryEventBus(log)
	balanceHandler := event.NewIdempotentHandler(
		financeapp.NewBalanceChangedHandler(log).WithObserver(ledgerMetrics),
		idempotencyStore,
		log,
		event.WithKeyPrefix("event:balance:"),
	)
	eventBus.Subscribe(balanceHandler)
	log.Info("Event handlers registered", zap.Strings("balance_events", balanceHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processorConfig := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Event.BatchSize),
			zap.Duration("poll_interval", cfg.Event.PollInterval),
		)
	}

	// Scheduled reconcile
	schedulerConfig, err := scheduler.ConfigFromLedger(cfg.Ledger)
	if err != nil {
		log.Fatal("Invalid reconcile schedule", zap.Error(err))
	}
	reconcileScheduler := scheduler.NewReconcileScheduler(schedulerConfig, ledgerService, scheduler.NewRunRepository(db.DB), log)
	if err := reconcileScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
	}
	defer func() {
		if err := reconcileScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping reconcile scheduler", zap.Error(err))
		}
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engineHTTP := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engineHTTP.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.Env == "production"

	engineHTTP.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.TraceAttributes(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(meterProvider.Meter("tamarind/http")),
		middleware.Profiling(profilingConfig),
		middleware.Secure(securityConfig),
		middleware.CORS(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.WriteTimeout),
	)

	var routerOpts []router.RouterOption
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		routerOpts = append(routerOpts, router.WithAPIMiddleware(middleware.RateLimit(rateLimiter)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	var idempotencyGuard gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		idempotencyGuard = middleware.Idempotency(idempotencyStore, middleware.IdempotencyConfig{
			TTL:       cfg.Idempotency.TTL,
			KeyPrefix: "http:",
		})
	}

	handlers := router.Handlers{
		Customer:        handler.NewCustomerHandler(customerService, ledgerService),
		Supplier:        handler.NewSupplierHandler(supplierService, ledgerService),
		Sale:            handler.NewSaleHandler(saleService),
		Purchase:        handler.NewPurchaseHandler(purchaseService),
		Receipt:         handler.NewReceiptHandler(receiptService),
		SupplierPayment: handler.NewSupplierPaymentHandler(paymentService),
		Ledger:          handler.NewLedgerHandler(ledgerService),
		Outbox:          handler.NewOutboxHandler(outboxService),
		System:          handler.NewSystemHandler("Tamarind Ledger API", version),
	}

	r := router.NewRouter(engineHTTP, routerOpts...)
	r.Register(router.LedgerRoutes(handlers, idempotencyGuard)...)
	r.Setup()

	var cachePinger handler.ContextPinger
	if p, ok := idempotencyStore.(handler.ContextPinger); ok {
		cachePinger = p
	}
	router.RegisterHealthRoutes(engineHTTP, handler.NewHealthHandler(db, cachePinger))
	router.RegisterSwagger(engineHTTP, middleware.SwaggerConfig{
		Enabled:    cfg.Swagger.Enabled,
		AllowedIPs: cfg.Swagger.AllowedIPs,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engineHTTP,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func newLogger(cfg *config.Config, extra ...zapcore.Core) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, extra...)
}
