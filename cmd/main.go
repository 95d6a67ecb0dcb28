package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/api"
	"github.com/rryowa/billtracker/internal/controller"
	"github.com/rryowa/billtracker/internal/migrations"
	"github.com/rryowa/billtracker/internal/queue"
	"github.com/rryowa/billtracker/internal/service"
	"github.com/rryowa/billtracker/internal/storage"
	"github.com/rryowa/billtracker/internal/storage/memory"
	"github.com/rryowa/billtracker/internal/storage/postgres"
	"github.com/rryowa/billtracker/internal/storage/redis"
	"github.com/rryowa/billtracker/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()
	defer func() { _ = logger.Sync() }()

	var (
		store        storage.Storage
		tokenStorage storage.TokenStorage
		cleanupFuncs []func()
	)

	switch util.GetStorageDriver() {
	case util.StorageDriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		store = memory.NewStorage(logger)
		tokenStorage = memory.NewTokenStorage()
	default:
		db, dbCleanup, err := util.NewDBConnection(logger)
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		if err := migrations.RunMigrations(db, logger); err != nil {
			logger.Fatal(zap.Error(err))
		}

		redisClient, redisCleanup, err := util.NewRedisClient(ctx, logger, util.NewRedisConfig())
		if err != nil {
			logger.Fatal(zap.Error(err))
		}

		store = postgres.NewStorage(db)
		tokenStorage = redis.NewTokenStorage(redisClient)
		cleanupFuncs = append(cleanupFuncs, dbCleanup, redisCleanup)
	}

	tokenCfg := util.NewTokenConfig()
	securityCfg := util.NewSecurityConfig()

	tokenService := service.NewTokenService(tokenCfg, tokenStorage)
	ledger := service.NewRefreshTokenLedger(store, tokenCfg.RefreshTTL)
	passwords := service.NewBcryptHasher(securityCfg.BcryptCost)
	webhookService := service.NewWebhookService(logger, util.GetWebhookURL())
	publisher := queue.NewPublisher(util.GetRabbitMQURL(), logger)

	authService := service.NewAuthService(store, ledger, tokenService, passwords, logger)
	sessionService := service.NewSessionService(ledger, store, authService, webhookService, logger)
	billService := service.NewBillService(store, publisher, logger)

	controller := controller.NewController(logger, authService, sessionService, tokenService, billService, securityCfg)

	apiServer := api.NewAPI(controller, tokenService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
