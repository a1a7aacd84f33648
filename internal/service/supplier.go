package service

import (
	"context"

	"inventoryapi/internal/cache"
	"inventoryapi/internal/events"
	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

// SupplierService defines the supplier use cases. Reads attach each
// supplier's products as short refs.
type SupplierService interface {
	Create(ctx context.Context, s *model.Supplier) (int64, error)
	Get(ctx context.Context, id int64) (*model.Supplier, error)
	List(ctx context.Context, pq repository.PageQuery) ([]model.Supplier, error)
	Update(ctx context.Context, id int64, u repository.SupplierUpdate) error
	Delete(ctx context.Context, id int64) error
}

type supplierService struct {
	repo     repository.SupplierRepository
	products repository.ProductRepository
	cache    cache.ProductCache
	pub      events.Publisher
}

// NewSupplierService constructs a SupplierService. The product cache is
// needed because deleting a supplier unassigns its products.
func NewSupplierService(repo repository.SupplierRepository, products repository.ProductRepository, c cache.ProductCache, pub events.Publisher) SupplierService {
	return &supplierService{repo: repo, products: products, cache: c, pub: pub}
}

func (s *supplierService) Create(ctx context.Context, sup *model.Supplier) (int64, error) {
	id, err := s.repo.Create(ctx, sup)
	if err != nil {
		return 0, mapRepoError(err)
	}
	sup.ID = id
	sup.Products = []model.ProductRef{}

	publish(ctx, s.pub, events.New(events.SupplierCreated, sup))
	return id, nil
}

func (s *supplierService) Get(ctx context.Context, id int64) (*model.Supplier, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	refs, err := s.products.ListRefsBySupplierIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	sup.Products = refsOrEmpty(refs[id])
	return sup, nil
}

// List loads one page of suppliers and their products with a single
// secondary query keyed by the page's supplier ids.
func (s *supplierService) List(ctx context.Context, pq repository.PageQuery) ([]model.Supplier, error) {
	if pq.Limit < 0 {
		pq.Limit = 0
	}
	if pq.Offset < 0 {
		pq.Offset = 0
	}
	items, err := s.repo.List(ctx, pq)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	refs, err := s.products.ListRefsBySupplierIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Products = refsOrEmpty(refs[items[i].ID])
	}
	return items, nil
}

func (s *supplierService) Update(ctx context.Context, id int64, u repository.SupplierUpdate) error {
	if u.IsEmpty() {
		return ErrNoFields
	}
	if err := s.repo.Update(ctx, id, u); err != nil {
		return mapRepoError(err)
	}

	changes := map[string]any{"supplier_id": id}
	for _, a := range u.Assignments() {
		changes[a.Column] = a.Value
	}
	publish(ctx, s.pub, events.New(events.SupplierUpdated, changes))
	return nil
}

// Delete removes the supplier. Its products stay with supplier_id set to
// NULL, so their cached copies are dropped.
func (s *supplierService) Delete(ctx context.Context, id int64) error {
	refs, err := s.products.ListRefsBySupplierIDs(ctx, []int64{id})
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	productIDs := make([]int64, 0, len(refs[id]))
	for _, r := range refs[id] {
		productIDs = append(productIDs, r.ID)
	}
	invalidate(ctx, s.cache, productIDs...)

	publish(ctx, s.pub, events.New(events.SupplierDeleted, map[string]any{
		"supplier_id":         id,
		"unassigned_products": productIDs,
	}))
	return nil
}

func refsOrEmpty(refs []model.ProductRef) []model.ProductRef {
	if refs == nil {
		return []model.ProductRef{}
	}
	return refs
}
