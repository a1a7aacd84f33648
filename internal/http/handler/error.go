package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"inventoryapi/internal/http/middleware"
	"inventoryapi/internal/logger"
	"inventoryapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []fieldDetail `json:"details,omitempty"`
}

// fieldDetail names one rejected request field.
type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string, details ...fieldDetail) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service error onto its HTTP response. notFound
// is the message used for service.ErrNotFound.
func writeServiceError(c *fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", notFound)
	case errors.Is(err, service.ErrNoFields):
		return writeError(c, fiber.StatusBadRequest, "NO_FIELDS", "no valid fields to update")
	case errors.Is(err, service.ErrDuplicateSKU):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_SKU", "a product with this sku already exists")
	case errors.Is(err, service.ErrSupplierNotFound):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNKNOWN_SUPPLIER", "supplier_id does not reference an existing supplier")
	case errors.Is(err, service.ErrInsufficientStock):
		return writeError(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", "quantity cannot go below zero")
	case errors.Is(err, service.ErrOutOfRange):
		return writeError(c, fiber.StatusBadRequest, "VALUE_OUT_OF_RANGE", "a numeric value is out of range")
	case errors.Is(err, service.ErrStorageDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "image storage is not configured")
	case errors.Is(err, service.ErrNoImage):
		return writeError(c, fiber.StatusNotFound, "NO_IMAGE", "product has no image")
	}

	logger.FromContext(c.UserContext()).Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			logger.FromContext(c.UserContext()).Error("unhandled error", zap.Error(err))
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
