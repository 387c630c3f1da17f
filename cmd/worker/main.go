package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/cache"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-optimizer/internal/jobs"
	"github.com/jhoicas/inventory-optimizer/pkg/config"
	"github.com/jhoicas/inventory-optimizer/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar redis")
		}
	}()
	redisCache := cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis ping")
	}

	forecastUC := analytics.NewForecastUseCase(
		postgres.NewProductRepository(pool),
		postgres.NewSaleRecordRepository(pool),
		redisCache,
	)
	warmupJob := jobs.NewForecastWarmupJob(forecastUC, log.Zerolog())

	var cron []jobs.CronRegistration
	if cfg.Forecast.WarmupCron != "" {
		warmupTask, err := jobs.NewForecastWarmupTask(cfg.Forecast.DefaultHorizon)
		if err != nil {
			log.Fatal().Err(err).Msg("construir tarea de warmup")
		}
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.Forecast.WarmupCron,
			Task:    warmupTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Logger:    log.Zerolog(),
		Handlers:  []jobs.TaskHandler{{Type: jobs.TaskForecastWarmup, Handler: warmupJob.Handle}},
		Cron:      cron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	log.Info().Str("cron", cfg.Forecast.WarmupCron).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker")
	}
	log.Info().Msg("worker detenido")
}
