package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventoryapi/internal/cache"
	"inventoryapi/internal/events"
	"inventoryapi/internal/logger"
	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
	"inventoryapi/internal/storage"
)

// ImageURLExpiry is the lifetime of presigned image URLs.
const ImageURLExpiry = 15 * time.Minute

// ProductService defines the product use cases.
type ProductService interface {
	// Create stores a new product and returns its id. Status defaults to Active.
	Create(ctx context.Context, p *model.Product) (int64, error)

	// Get returns a product, served from cache when possible.
	Get(ctx context.Context, id int64) (*model.Product, error)

	// List returns products matching the filter.
	List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error)

	// Update applies a partial update.
	Update(ctx context.Context, id int64, u repository.ProductUpdate) error

	// AdjustStock adds delta to the quantity and returns the new quantity.
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)

	// UploadImage stores the image and records its key. The previous image is removed.
	UploadImage(ctx context.Context, id int64, r io.Reader, filename, contentType string, size int64) (*model.Product, error)

	// ImageURL returns a presigned download URL for the product image.
	ImageURL(ctx context.Context, id int64) (string, error)

	// Delete removes the product and its image.
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	pub   events.Publisher
	store storage.Storage
}

// NewProductService constructs a ProductService.
func NewProductService(repo repository.ProductRepository, c cache.ProductCache, pub events.Publisher, store storage.Storage) ProductService {
	return &productService{repo: repo, cache: c, pub: pub, store: store}
}

func (s *productService) Create(ctx context.Context, p *model.Product) (int64, error) {
	if p.Status == "" {
		p.Status = model.DefaultProductStatus
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return 0, mapRepoError(err)
	}
	p.ID = id

	publish(ctx, s.pub, events.New(events.ProductCreated, p))
	return id, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*model.Product, error) {
	log := logger.FromContext(ctx)

	p, err := s.cache.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn("product cache read failed", zap.Int64("product_id", id), zap.Error(err))
	}

	p, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := s.cache.Set(ctx, p); err != nil {
		log.Warn("product cache write failed", zap.Int64("product_id", id), zap.Error(err))
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *productService) Update(ctx context.Context, id int64, u repository.ProductUpdate) error {
	if u.IsEmpty() {
		return ErrNoFields
	}
	if err := s.repo.Update(ctx, id, u); err != nil {
		return mapRepoError(err)
	}
	invalidate(ctx, s.cache, id)

	changes := map[string]any{"product_id": id}
	for _, a := range u.Assignments() {
		changes[a.Column] = a.Value
	}
	publish(ctx, s.pub, events.New(events.ProductUpdated, changes))
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	qty, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return 0, mapRepoError(err)
	}
	invalidate(ctx, s.cache, id)

	publish(ctx, s.pub, events.New(events.ProductStockAdjusted, map[string]any{
		"product_id": id,
		"delta":      delta,
		"quantity":   qty,
	}))
	return qty, nil
}

func (s *productService) UploadImage(ctx context.Context, id int64, r io.Reader, filename, contentType string, size int64) (*model.Product, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	key := path.Join("products", strconv.FormatInt(id, 10), uuid.New().String()+filepath.Ext(filename))
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	}); err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return nil, ErrStorageDisabled
		}
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.repo.SetImage(ctx, id, &key); err != nil {
		// Rollback: the object is unreachable without its key.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if mapped := mapRepoError(err); errors.Is(mapped, ErrNotFound) {
			return nil, mapped
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if p.ImageKey != nil {
		if err := s.store.Delete(ctx, *p.ImageKey); err != nil {
			logger.FromContext(ctx).Warn("old product image not removed",
				zap.Int64("product_id", id),
				zap.String("image_key", *p.ImageKey),
				zap.Error(err),
			)
		}
	}
	invalidate(ctx, s.cache, id)

	publish(ctx, s.pub, events.New(events.ProductUpdated, map[string]any{
		"product_id": id,
		"image_key":  key,
	}))

	// Re-read so updated_at reflects the write.
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Warn("product reload after image upload failed",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		p.ImageKey = &key
		return p, nil
	}
	return updated, nil
}

func (s *productService) ImageURL(ctx context.Context, id int64) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if p.ImageKey == nil {
		return "", ErrNoImage
	}
	u, err := s.store.PresignGet(ctx, *p.ImageKey, ImageURLExpiry)
	if errors.Is(err, storage.ErrDisabled) {
		return "", ErrStorageDisabled
	}
	return u, err
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	invalidate(ctx, s.cache, id)

	if p.ImageKey != nil {
		if err := s.store.Delete(ctx, *p.ImageKey); err != nil && !errors.Is(err, storage.ErrDisabled) {
			logger.FromContext(ctx).Warn("product image not removed",
				zap.Int64("product_id", id),
				zap.String("image_key", *p.ImageKey),
				zap.Error(err),
			)
		}
	}

	publish(ctx, s.pub, events.New(events.ProductDeleted, map[string]any{"product_id": id}))
	return nil
}

func invalidate(ctx context.Context, c cache.ProductCache, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	if err := c.Invalidate(ctx, ids...); err != nil {
		logger.FromContext(ctx).Warn("product cache invalidation failed",
			zap.Int64s("product_ids", ids),
			zap.Error(err),
		)
	}
}
