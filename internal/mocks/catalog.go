package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// MockCatalogSource mocks ports.CatalogSource.
type MockCatalogSource struct {
	mock.Mock
}

// NewMockCatalogSource creates a mock that asserts its expectations on cleanup.
func NewMockCatalogSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogSource {
	m := &MockCatalogSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCatalogSource) Name() string {
	return m.Called().String(0)
}

func (m *MockCatalogSource) Required() bool {
	return m.Called().Bool(0)
}

func (m *MockCatalogSource) Load(ctx context.Context) (*domain.Catalog, error) {
	args := m.Called(ctx)

	c, _ := args.Get(0).(*domain.Catalog)

	return c, args.Error(1)
}

// MockProductStore mocks ports.ProductStore.
type MockProductStore struct {
	mock.Mock
}

// NewMockProductStore creates a mock that asserts its expectations on cleanup.
func NewMockProductStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductStore {
	m := &MockProductStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductStore) Validate(products []domain.Product) error {
	return m.Called(products).Error(0)
}

func (m *MockProductStore) Upsert(ctx context.Context, products []domain.Product) (int, error) {
	args := m.Called(ctx, products)

	return args.Int(0), args.Error(1)
}

func (m *MockProductStore) Load(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)

	products, _ := args.Get(0).([]domain.Product)

	return products, args.Error(1)
}

func (m *MockProductStore) Stats(ctx context.Context) (*ports.ProductStats, error) {
	args := m.Called(ctx)

	stats, _ := args.Get(0).(*ports.ProductStats)

	return stats, args.Error(1)
}

func (m *MockProductStore) Backup(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

func (m *MockProductStore) CleanupBackups(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}
