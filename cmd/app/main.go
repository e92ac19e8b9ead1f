package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/pickuptoken"
	"fulfillment/internal/adapters/out/postgres/migrations"
	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const serviceName = "fulfillment"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := cmd.LoadConfig()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(ctx, cfg.DB)
	requireResource(logg, "database", err)
	defer closeDatabase(logg, gormDB)

	codec, err := pickuptoken.NewJWTCodec(pickuptoken.Config{
		Secret: cfg.Pickup.Secret,
		Issuer: cfg.Pickup.Issuer,
	})
	requireResource(logg, "pickup token codec", err)

	adapters := cmd.Adapters{Codec: codec}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			Address:      cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		requireResource(logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		nonces, err := redis.NewNonceRegistry(redisClient)
		requireResource(logg, "nonce registry", err)
		adapters.Nonces = nonces
	} else {
		logg.Warn(ctx, "redis is not configured, pickup tokens are not single-use")
	}

	if cfg.RabbitMQ.URL != "" {
		rabbitClient, err := rabbitmq.Dial(cfg.RabbitMQ.URL)
		requireResource(logg, "rabbitmq", err)
		defer rabbitClient.Close()

		requireResource(logg, "rabbitmq exchange", rabbitClient.DeclareFanout(cfg.RabbitMQ.Exchange))

		var notifier ports.Notifier
		notifier, err = rabbitmq.NewNotifier(rabbitClient, cfg.RabbitMQ.Exchange)
		requireResource(logg, "notifier", err)
		adapters.Notifier = notifier
	} else {
		logg.Warn(ctx, "rabbitmq is not configured, client notifications are dropped")
	}

	app := cmd.NewCompositionRoot(cfg, gormDB, logg, adapters)

	router, err := app.CreateRouter()
	requireResource(logg, "http router", err)

	jobManager := app.CreateJobManager()
	requireResource(logg, "jobs", jobManager.StartAll())

	addr := ":" + cfg.HTTP.Port
	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting http server")
		if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logg.Info(context.Background(), "shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logg.Error(context.Background(), "http server stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "http server shutdown failed", err)
	}
	jobManager.StopAll()
	if err := app.Notifier().Wait(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "pending notifications were not delivered", err)
	}

	logg.Info(context.Background(), "shutdown complete")
}

func openDatabase(ctx context.Context, cfg cmd.DBConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return gormDB, nil
}

func closeDatabase(logg *logger.Logger, gormDB *gorm.DB) {
	sqlDB, err := gormDB.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		logg.Error(context.Background(), "error closing database", err)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
