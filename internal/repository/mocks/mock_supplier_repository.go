package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

type MockSupplierRepository struct {
	mock.Mock
}

var _ repository.SupplierRepository = (*MockSupplierRepository)(nil)

func (m *MockSupplierRepository) Create(ctx context.Context, s *model.Supplier) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context, pq repository.PageQuery) ([]model.Supplier, error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, id int64, u repository.SupplierUpdate) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
