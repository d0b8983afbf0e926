package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ahmedtravel/playbook/internal/domain"
)

// MockQuoteHistory mocks ports.QuoteHistory.
type MockQuoteHistory struct {
	mock.Mock
}

// NewMockQuoteHistory creates a mock that asserts its expectations on cleanup.
func NewMockQuoteHistory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteHistory {
	m := &MockQuoteHistory{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQuoteHistory) List(ctx context.Context, owner string) ([]domain.RecentQuote, error) {
	args := m.Called(ctx, owner)

	quotes, _ := args.Get(0).([]domain.RecentQuote)

	return quotes, args.Error(1)
}

func (m *MockQuoteHistory) Add(ctx context.Context, owner string, q domain.RecentQuote) error {
	return m.Called(ctx, owner, q).Error(0)
}

func (m *MockQuoteHistory) Remove(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockQuoteHistory) Clear(ctx context.Context, owner string) error {
	return m.Called(ctx, owner).Error(0)
}

// MockFavoriteScripts mocks ports.FavoriteScripts.
type MockFavoriteScripts struct {
	mock.Mock
}

// NewMockFavoriteScripts creates a mock that asserts its expectations on cleanup.
func NewMockFavoriteScripts(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFavoriteScripts {
	m := &MockFavoriteScripts{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFavoriteScripts) List(ctx context.Context, owner string) ([]string, error) {
	args := m.Called(ctx, owner)

	ids, _ := args.Get(0).([]string)

	return ids, args.Error(1)
}

func (m *MockFavoriteScripts) Contains(ctx context.Context, owner, scriptID string) (bool, error) {
	args := m.Called(ctx, owner, scriptID)

	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteScripts) Toggle(ctx context.Context, owner, scriptID string) (bool, error) {
	args := m.Called(ctx, owner, scriptID)

	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteScripts) Add(ctx context.Context, owner, scriptID string) error {
	return m.Called(ctx, owner, scriptID).Error(0)
}

func (m *MockFavoriteScripts) Remove(ctx context.Context, owner, scriptID string) error {
	return m.Called(ctx, owner, scriptID).Error(0)
}

func (m *MockFavoriteScripts) Clear(ctx context.Context, owner string) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *MockFavoriteScripts) Count(ctx context.Context, owner string) (int, error) {
	args := m.Called(ctx, owner)

	return args.Int(0), args.Error(1)
}
