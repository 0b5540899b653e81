package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/farmstand/backend/internal/auth"
	cartHTTP "github.com/farmstand/backend/internal/cart/delivery/http"
	cartrepo "github.com/farmstand/backend/internal/cart/repository"
	"github.com/farmstand/backend/internal/config"
	inventoryHTTP "github.com/farmstand/backend/internal/inventory/delivery/http"
	inventoryrepo "github.com/farmstand/backend/internal/inventory/repository"
	inventorycmd "github.com/farmstand/backend/internal/inventory/usecase/command"
	inventoryquery "github.com/farmstand/backend/internal/inventory/usecase/query"
	kioskHTTP "github.com/farmstand/backend/internal/kiosk/delivery/http"
	kioskrepo "github.com/farmstand/backend/internal/kiosk/repository"
	kioskcmd "github.com/farmstand/backend/internal/kiosk/usecase/command"
	kioskquery "github.com/farmstand/backend/internal/kiosk/usecase/query"
	"github.com/farmstand/backend/internal/middleware"
	orderHTTP "github.com/farmstand/backend/internal/order/delivery/http"
	orderrepo "github.com/farmstand/backend/internal/order/repository"
	ordercmd "github.com/farmstand/backend/internal/order/usecase/command"
	orderquery "github.com/farmstand/backend/internal/order/usecase/query"
	productHTTP "github.com/farmstand/backend/internal/product/delivery/http"
	productrepo "github.com/farmstand/backend/internal/product/repository"
	"github.com/farmstand/backend/kafka"
	"github.com/farmstand/backend/pkg/database"
	"github.com/farmstand/backend/pkg/logger"
	"github.com/farmstand/backend/pkg/tracing"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting farmstand backend")

	// Tracer
	tp, err := tracing.InitTracer(cfg.ServiceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Repositories
	productRepo := productrepo.NewGormProductRepositoryWithTracing(db)
	cartRepo := cartrepo.NewGormCartRepository(db)
	orderRepo := orderrepo.NewGormOrderRepository(db)
	inventoryRepo := inventoryrepo.NewGormInventoryRepositoryWithTracing(db)
	kioskRepo := kioskrepo.NewGormKioskRepository(db)

	for name, migrate := range map[string]func() error{
		"product":   productRepo.AutoMigrate,
		"cart":      cartRepo.AutoMigrate,
		"order":     orderRepo.AutoMigrate,
		"inventory": inventoryRepo.AutoMigrate,
		"kiosk":     kioskRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Str("domain", name).Msg("Failed to run migrations")
		}
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	// Redis (cache + rate limiting); optional
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - caching and rate limiting disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Connected to Redis")
	}

	// Kafka publisher; optional
	var publisher *kafka.Publisher
	if cfg.KafkaEnabled {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize Kafka publisher - events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Handlers
	productHandler := productHTTP.NewProductHandler(productRepo)
	cartHandler := cartHTTP.NewCartHandler(cartRepo, productRepo)

	var orderPublisher ordercmd.OrderEventPublisher
	var alertPublisher inventorycmd.AlertPublisher
	if publisher != nil {
		orderPublisher = publisher
		alertPublisher = publisher
	}
	orderHandler := orderHTTP.NewOrderHandler(
		ordercmd.NewSubmitOrderHandler(orderRepo, productRepo, orderPublisher, cfg.TaxRate),
		ordercmd.NewUpdateStatusHandler(orderRepo),
		orderquery.NewGetOrderHandler(orderRepo),
		orderquery.NewListOrdersHandler(orderRepo),
	)

	recordMovement := inventorycmd.NewRecordMovementHandler(inventoryRepo, alertPublisher)
	inventoryHandler := inventoryHTTP.NewInventoryHandler(
		inventorycmd.NewCreateItemHandler(inventoryRepo),
		recordMovement,
		inventorycmd.NewBatchUpdateHandler(recordMovement),
		inventoryquery.NewGetItemHandler(inventoryRepo),
		inventoryquery.NewListItemsHandler(inventoryRepo),
		inventoryquery.NewListMovementsHandler(inventoryRepo),
		inventoryquery.NewListAlertsHandler(inventoryRepo),
	)

	var pinLimiter fiber.Handler
	if redisClient != nil {
		pinLimiter = middleware.KioskRateLimiter(redisClient)
	}
	kioskHandler := kioskHTTP.NewKioskHandler(
		kioskcmd.NewStartSessionHandler(kioskRepo, jwtManager),
		kioskcmd.NewRecordTransactionHandler(kioskRepo, cfg.TaxRate),
		kioskcmd.NewEndSessionHandler(kioskRepo),
		kioskquery.NewGetSessionHandler(kioskRepo),
		pinLimiter,
	)

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Farmstand Backend",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	setupMiddleware(app, redisClient)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", healthCheck(db))

	api := app.Group("/api/v1")
	productHandler.RegisterRoutes(api, jwtManager)
	cartHandler.RegisterRoutes(api, jwtManager)
	orderHandler.RegisterRoutes(api, jwtManager)
	inventoryHandler.RegisterRoutes(api, jwtManager)
	kioskHandler.RegisterRoutes(api, jwtManager)

	go func() {
		addr := ":" + cfg.Port
		logger.Logger.Info().Str("addr", addr).Msg("HTTP server started")
		if err := app.Listen(addr); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Logger.Info().Msg("Server stopped")
}

// setupMiddleware configures global middleware
func setupMiddleware(app *fiber.App, redisClient *redis.Client) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(requestid.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.RequestLogging())
	app.Use(middleware.Metrics())

	if redisClient != nil {
		cacheConfig := middleware.DefaultCacheConfig()
		app.Use(middleware.ResponseCache(redisClient, cacheConfig))
		app.Use(middleware.CacheInvalidation(redisClient))
		app.Use(middleware.GlobalRateLimiter(redisClient))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		AllowMethods:  "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		ExposeHeaders: "X-Request-Id, X-Trace-Id, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:        86400,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func healthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
