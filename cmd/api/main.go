package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"inventoryapi/internal/cache"
	"inventoryapi/internal/config"
	"inventoryapi/internal/database"
	"inventoryapi/internal/database/migration"
	"inventoryapi/internal/events"
	handlers "inventoryapi/internal/http/handler"
	"inventoryapi/internal/http/middleware"
	"inventoryapi/internal/logger"
	appotel "inventoryapi/internal/otel"
	"inventoryapi/internal/repository"
	"inventoryapi/internal/repository/mysql"
	"inventoryapi/internal/repository/postgres"
	"inventoryapi/internal/service"
	"inventoryapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Inventory API
// @version 1.0
// @description CRUD API for products and suppliers.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		Location: cfg.Location(),
	}).With(zap.String("service", cfg.Name), zap.String("env", cfg.Env))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, log, cfg.Name)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrateUp(cfg.Database, log); err != nil {
			log.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	productRepo, supplierRepo := newRepositories(cfg.Database.Driver, db)

	productCache := newProductCache(ctx, cfg.Redis, log)
	publisher := newPublisher(cfg.AMQP, log)
	defer publisher.Close()
	store := newStorage(ctx, cfg.MinIO, log)

	svc := handlers.Services{
		Products:  service.NewProductService(productRepo, productCache, publisher, store),
		Suppliers: service.NewSupplierService(supplierRepo, productRepo, productCache, publisher),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.RequestID())
	app.Use(prom.Handler())
	app.Use(middleware.Logger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.CORSAllowOrigins, ","),
		ExposeHeaders: middleware.RequestIDHeader,
	}))

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(app, db, svc)

	go func() {
		addr := ":" + cfg.Port
		log.Info("http server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func migrateUp(c config.DatabaseConfig, log *zap.Logger) error {
	mg, err := migration.Open(c, log)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}

func newRepositories(driver string, db *sql.DB) (repository.ProductRepository, repository.SupplierRepository) {
	if driver == config.DriverMySQL {
		return mysql.NewProductMySQL(db), mysql.NewSupplierMySQL(db)
	}
	return postgres.NewProductPostgres(db), postgres.NewSupplierPostgres(db)
}

// newProductCache falls back to no caching when Redis is not configured or unreachable.
func newProductCache(ctx context.Context, c config.RedisConfig, log *zap.Logger) cache.ProductCache {
	if c.Addr == "" {
		log.Info("product cache disabled")
		return cache.Noop{}
	}
	client, err := cache.Connect(ctx, c)
	if err != nil {
		log.Warn("redis unavailable, product cache disabled", zap.String("addr", c.Addr), zap.Error(err))
		return cache.Noop{}
	}
	log.Info("product cache enabled", zap.String("addr", c.Addr), zap.Duration("ttl", c.TTL))
	return cache.NewRedisProductCache(client, c.TTL)
}

func newPublisher(c config.AMQPConfig, log *zap.Logger) events.Publisher {
	if c.URL == "" {
		log.Info("event publishing disabled")
		return events.Noop{}
	}
	pub, err := events.NewAMQPPublisher(c)
	if err != nil {
		log.Warn("amqp unavailable, event publishing disabled", zap.Error(err))
		return events.Noop{}
	}
	log.Info("event publishing enabled", zap.String("exchange", c.Exchange))
	return pub
}

func newStorage(ctx context.Context, c config.MinIOConfig, log *zap.Logger) storage.Storage {
	if c.Endpoint == "" {
		log.Info("image storage disabled")
		return storage.Disabled{}
	}
	store, err := storage.NewMinIO(ctx, c)
	if err != nil {
		log.Warn("object storage unavailable, product images disabled", zap.String("endpoint", c.Endpoint), zap.Error(err))
		return storage.Disabled{}
	}
	log.Info("image storage enabled", zap.String("bucket", c.Bucket))
	return store
}
