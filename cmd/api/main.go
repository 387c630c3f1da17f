package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-optimizer/docs"
	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
	"github.com/jhoicas/inventory-optimizer/internal/application/auth"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/inventory-optimizer/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/inventory-optimizer/internal/interfaces/http"
	"github.com/jhoicas/inventory-optimizer/internal/jobs"
	"github.com/jhoicas/inventory-optimizer/pkg/config"
	"github.com/jhoicas/inventory-optimizer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	// Redis es opcional: sin REDIS_ADDR no hay cache analítico ni cola de tareas.
	var (
		analyticsCache analytics.Cache
		invalidator    inventory.CacheInvalidator
		enqueuer       httpRouter.WarmupEnqueuer
	)
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar redis")
			}
		}()
		redisCache := cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; el cache se recupera cuando vuelva")
		}
		analyticsCache = redisCache
		invalidator = redisCache

		jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer jobClient.Close()
		enqueuer = jobClient
	} else {
		log.Info().Msg("REDIS_ADDR vacío: cache analítico y tareas en segundo plano deshabilitados")
	}

	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRecordRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewProductLedger(txRunner, productRepo, invalidator, inventory.NewClock(), cfg.Audit.SystemActor)
	sales := inventory.NewSaleRecorder(txRunner, ledger, saleRepo)
	forecastUC := analytics.NewForecastUseCase(productRepo, saleRepo, analyticsCache)
	reportUC := analytics.NewReportUseCase(productRepo, saleRepo)
	auditUC := audit.NewUseCase(auditRepo, xmlexport.NewAuditExporter())
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:     cfg.App.Name,
		SwaggerJSON: []byte(docs.SwaggerInfo.ReadDoc()),
		HealthCheck: pool.Ping,
	}, httpRouter.RouterDeps{
		Ledger:          ledger,
		Sales:           sales,
		Forecasts:       forecastUC,
		Reports:         reportUC,
		Audit:           auditUC,
		AuthUC:          authUC,
		SummaryRenderer: infrapdf.NewSummaryReportGenerator(cfg.App.Name),
		WarmupEnqueuer:  enqueuer,
		ForecastHorizon: cfg.Forecast.DefaultHorizon,
		JWTSecret:       cfg.JWT.Secret,
	}, log.Zerolog())

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
