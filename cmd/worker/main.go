package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/app"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/cache"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/db"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/receivables"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/tickets"
	"github.com/Adal612Git/cueramaro-prime-v1/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	renderer, err := tickets.NewRenderer(cfg.TicketDir)
	if err != nil {
		logger.Error("init ticket renderer", slog.Any("error", err))
		os.Exit(1)
	}

	receivablesCache := receivables.NewCache(redisClient, cfg.ReceivablesCacheTTL)
	receivablesRepo := receivables.NewRepository(pool)
	receivablesService := receivables.NewService(logger, receivablesRepo, receivablesCache, nil)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTicketGenerate, Handler: jobs.NewTicketHandler(logger, renderer)},
			{Type: jobs.TaskReceivablesWarmup, Handler: jobs.NewWarmupHandler(logger, receivablesService)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: jobs.NewWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
