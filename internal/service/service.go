package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"inventoryapi/internal/events"
	"inventoryapi/internal/logger"
	"inventoryapi/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNoFields          = errors.New("no fields to update")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrSupplierNotFound  = errors.New("supplier does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOutOfRange        = errors.New("value out of range")
	ErrStorageDisabled   = errors.New("image storage is not configured")
	ErrNoImage           = errors.New("product has no image")
	ErrReaderNil         = errors.New("reader is nil")
)

// mapRepoError turns repository errors into service errors.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateSKU
	case errors.Is(err, repository.ErrInvalidReference):
		return ErrSupplierNotFound
	case errors.Is(err, repository.ErrInsufficientStock):
		return ErrInsufficientStock
	case errors.Is(err, repository.ErrOutOfRange):
		return ErrOutOfRange
	}
	return err
}

// publish sends ev and only logs a failure; the write it describes has already committed.
func publish(ctx context.Context, pub events.Publisher, ev events.Event) {
	if err := pub.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("event publish failed",
			zap.String("event", ev.Type),
			zap.String("event_id", ev.ID),
			zap.Error(err),
		)
	}
}
