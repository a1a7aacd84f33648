package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"inventoryapi/internal/config"
	"inventoryapi/internal/http/middleware"
	"inventoryapi/internal/logger"
	appotel "inventoryapi/internal/otel"
	"inventoryapi/internal/web"
	"inventoryapi/internal/web/client"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	name := cfg.Name + "-web"

	log := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		Location: cfg.Location(),
	}).With(zap.String("service", name), zap.String("env", cfg.Env))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, log, name)
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

	api, err := client.New(cfg.Web.APIBaseURL, cfg.Web.APITimeout)
	if err != nil {
		log.Fatal("invalid API_BASE_URL", zap.String("url", cfg.Web.APIBaseURL), zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               name,
		Views:                 web.NewEngine(),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	web.New(api).Register(app)

	go func() {
		addr := ":" + cfg.Web.Port
		log.Info("web server listening", zap.String("addr", addr), zap.String("api", cfg.Web.APIBaseURL))
		if err := app.Listen(addr); err != nil {
			log.Error("web server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
