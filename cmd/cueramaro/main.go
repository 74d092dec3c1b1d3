package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/app"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/catalog"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/customers"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/inventory"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/observability"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/cache"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/db"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/receivables"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/sales"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/shared"
	"github.com/Adal612Git/cueramaro-prime-v1/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	ledger := inventory.NewLedger()
	inventoryRepo := inventory.NewRepository(pool, ledger)
	inventoryService := inventory.NewService(logger, inventoryRepo, auditLogger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	receivablesCache := receivables.NewCache(redisClient, cfg.ReceivablesCacheTTL)
	receivablesRepo := receivables.NewRepository(pool)
	receivablesService := receivables.NewService(logger, receivablesRepo, receivablesCache, auditLogger)
	receivablesHandler := receivables.NewHandler(logger, receivablesService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	salesRepo := sales.NewRepository(pool, catalogRepo, ledger)
	salesService := sales.NewService(logger, salesRepo, jobsClient, receivablesCache, auditLogger)
	salesHandler := sales.NewHandler(logger, salesService, customersService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		CatalogHandler:     catalogHandler,
		CustomersHandler:   customersHandler,
		InventoryHandler:   inventoryHandler,
		SalesHandler:       salesHandler,
		ReceivablesHandler: receivablesHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
