package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_service/api"
	"sales_service/internal/config"
	"sales_service/internal/notification"
	"sales_service/internal/products"
	"sales_service/internal/sales"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("error creating logger: %v", err))
	}
	defer logger.Sync()

	salesStorage, closeStorage, err := buildSalesStorage(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize sales storage", zap.Error(err))
	}
	defer closeStorage()

	productStorage, closeProducts := buildProductStorage(cfg, logger)
	defer closeProducts()

	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize notifier", zap.Error(err))
	}
	defer closeNotifier()

	salesService := sales.NewService(salesStorage, productStorage, notifier, logger)

	r := gin.Default()
	api.InitRoutes(r, salesService, productStorage, logger)

	if err := r.Run(":" + cfg.Port); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}

func buildSalesStorage(cfg *config.Config, logger *zap.Logger) (sales.Storage, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("no DATABASE_URL configured, using in-memory sales storage")
		return sales.NewLocalStorage(), func() {}, nil
	}

	db, err := sales.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := sales.RunMigrations(db, cfg.MigrationsDir); err != nil {
		db.Close()
		return nil, nil, err
	}
	storage := sales.NewPostgresStorage(db)
	logger.Info("sales storage connected", zap.String("migrations_dir", cfg.MigrationsDir))
	return storage, func() { storage.Close() }, nil
}

func buildProductStorage(cfg *config.Config, logger *zap.Logger) (products.Storage, func()) {
	if cfg.ProductServiceURL == "" {
		logger.Info("no PRODUCT_SERVICE_URL configured, using seeded in-memory catalog")
		storage := products.NewLocalStorage()
		products.Seed(storage)
		return storage, func() {}
	}

	client := products.NewRestClient(cfg.ProductServiceURL)
	logger.Info("product lookup via remote service", zap.String("url", cfg.ProductServiceURL))
	return client, func() { client.Close() }
}

func buildNotifier(cfg *config.Config, logger *zap.Logger) (sales.Notifier, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("no REDIS_ADDR configured, sale events will be logged only")
		return sales.NewLogNotifier(logger), func() {}, nil
	}

	client, err := notification.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	notifier := notification.NewRedisNotifier(client)
	logger.Info("sale events published to redis", zap.String("channel", notification.Channel))
	return notifier, func() { notifier.Close() }, nil
}
