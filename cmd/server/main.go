package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	expenseapp "github.com/sitecost/backend/internal/application/expense"
	financeapp "github.com/sitecost/backend/internal/application/finance"
	partnerapp "github.com/sitecost/backend/internal/application/partner"
	pettycashapp "github.com/sitecost/backend/internal/application/pettycash"
	reportapp "github.com/sitecost/backend/internal/application/report"
	"github.com/sitecost/backend/internal/infrastructure/config"
	"github.com/sitecost/backend/internal/infrastructure/event"
	"github.com/sitecost/backend/internal/infrastructure/logger"
	"github.com/sitecost/backend/internal/infrastructure/persistence"
	"github.com/sitecost/backend/internal/infrastructure/telemetry"
	"github.com/sitecost/backend/internal/interfaces/http/handler"
	"github.com/sitecost/backend/internal/interfaces/http/middleware"
	"github.com/sitecost/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SiteCost Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing (otelgorm)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Database tracing enabled",
			zap.Duration("slow_query_threshold", cfg.Telemetry.DBSlowQueryThresh),
		)
	}

	// Initialize repositories
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	pettyCashTxRepo := persistence.NewGormPettyCashTransactionRepository(db.DB)
	paymentRepo := persistence.NewGormReceivedPaymentRepository(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	employeeService := partnerapp.NewEmployeeService(employeeRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	ledgerService := pettycashapp.NewLedgerService(pettyCashTxRepo)
	expenseService := expenseapp.NewExpenseService(expenseRepo, eventBus, log)
	paymentService := financeapp.NewPaymentService(paymentRepo)
	reportService := reportapp.NewReportService(pettyCashTxRepo, expenseRepo)

	// Register event handlers for cross-context integration:
	// expense lifecycle events drive petty cash ledger debits
	expenseCreatedHandler := pettycashapp.NewExpenseCreatedHandler(ledgerService, log)
	eventBus.Subscribe(expenseCreatedHandler)

	expenseUpdatedHandler := pettycashapp.NewExpenseUpdatedHandler(ledgerService, log)
	eventBus.Subscribe(expenseUpdatedHandler)

	expenseDeletedHandler := pettycashapp.NewExpenseDeletedHandler(ledgerService, log)
	eventBus.Subscribe(expenseDeletedHandler)

	log.Info("Event handlers registered",
		zap.Strings("expense_created_events", expenseCreatedHandler.EventTypes()),
		zap.Strings("expense_updated_events", expenseUpdatedHandler.EventTypes()),
		zap.Strings("expense_deleted_events", expenseDeletedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	pettyCashHandler := handler.NewPettyCashHandler(ledgerService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			Enabled:     true,
			ServiceName: cfg.Telemetry.ServiceName,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Partner domain (employees, suppliers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/employees", employeeHandler.Create)
	partnerRoutes.GET("/employees", employeeHandler.List)
	partnerRoutes.GET("/employees/:id", employeeHandler.GetByID)
	partnerRoutes.PUT("/employees/:id", employeeHandler.Update)
	partnerRoutes.POST("/employees/:id/activate", employeeHandler.Activate)
	partnerRoutes.POST("/employees/:id/deactivate", employeeHandler.Deactivate)

	partnerRoutes.POST("/suppliers", supplierHandler.Create)
	partnerRoutes.GET("/suppliers", supplierHandler.List)
	partnerRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	partnerRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	partnerRoutes.POST("/suppliers/:id/activate", supplierHandler.Activate)
	partnerRoutes.POST("/suppliers/:id/deactivate", supplierHandler.Deactivate)

	// Expense domain
	expenseRoutes := router.NewDomainGroup("expense", "/expenses")
	expenseRoutes.POST("", expenseHandler.Create)
	expenseRoutes.GET("", expenseHandler.List)
	expenseRoutes.GET("/:id", expenseHandler.GetByID)
	expenseRoutes.PUT("/:id", expenseHandler.Update)
	expenseRoutes.DELETE("/:id", expenseHandler.Delete)

	// Petty cash domain (employee ledgers)
	pettyCashRoutes := router.NewDomainGroup("pettycash", "/pettycash")
	pettyCashRoutes.POST("/transactions", pettyCashHandler.AppendTransaction)
	pettyCashRoutes.GET("/transactions/:id", pettyCashHandler.GetTransaction)
	pettyCashRoutes.DELETE("/transactions/:id", pettyCashHandler.RemoveTransaction)
	pettyCashRoutes.GET("/employees/:id/transactions", pettyCashHandler.ListTransactions)
	pettyCashRoutes.GET("/employees/:id/balance", pettyCashHandler.GetBalance)
	pettyCashRoutes.GET("/balances", pettyCashHandler.ListBalances)

	// Finance domain (received payments)
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.POST("/payments", paymentHandler.Create)
	financeRoutes.GET("/payments", paymentHandler.List)
	financeRoutes.GET("/payments/:id", paymentHandler.GetByID)
	financeRoutes.DELETE("/payments/:id", paymentHandler.Delete)

	// Report domain
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/pettycash/summary", reportHandler.GetPettyCashSummary)
	reportRoutes.GET("/expenses/summary", reportHandler.GetExpenseSummary)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(partnerRoutes).
		Register(expenseRoutes).
		Register(pettyCashRoutes).
		Register(financeRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := tracerProvider.ForceFlush(ctx); err != nil {
		log.Warn("Error flushing remaining spans", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
