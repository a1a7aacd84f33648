package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"inventoryapi/internal/logger"
)

const pingTimeout = 2 * time.Second

// messageResponse is the body of simple acknowledgements.
type messageResponse struct {
	Message string `json:"message"`
}

// Index godoc
// @Summary      Welcome message
// @Tags         system
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(messageResponse{Message: "Welcome to the Inventory API! Use the web front-end to view the application, or /api/products for raw data."})
	}
}

// Status godoc
// @Summary      Database connectivity check
// @Tags         system
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorPayload
// @Router       /status [get]
func Status(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.FromContext(c.UserContext()).Error("database ping failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "DB_UNAVAILABLE", "database connection failed")
		}
		return c.JSON(messageResponse{Message: "API is running and connected to the database."})
	}
}

// HealthCheck godoc
// @Summary      Readiness check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// Liveness godoc
// @Summary      Liveness check
// @Tags         system
// @Success      200
// @Router       /healthz [get]
func Liveness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
