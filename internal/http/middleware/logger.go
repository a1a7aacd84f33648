package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"inventoryapi/internal/logger"
)

// Logger logs one line per request and hands a request-scoped logger to
// downstream handlers through the user context.
//
// Fields: request_id, method, path, status, latency (milliseconds).
// It must run after RequestID.
func Logger(base *zap.Logger) fiber.Handler {
	if base == nil {
		base = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqLog := base.With(zap.String("request_id", GetRequestID(c)))
		c.SetUserContext(logger.WithContext(c.UserContext(), reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			reqLog.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			reqLog.Warn("request", fields...)
		default:
			reqLog.Info("request", fields...)
		}

		return err
	}
}
