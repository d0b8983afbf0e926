package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFeatureFlags mocks ports.FeatureFlags.
type MockFeatureFlags struct {
	mock.Mock
}

// NewMockFeatureFlags creates a mock that asserts its expectations on cleanup.
func NewMockFeatureFlags(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFeatureFlags {
	m := &MockFeatureFlags{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFeatureFlags) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	return m.Called(ctx, flag, defaultValue).Bool(0)
}

func (m *MockFeatureFlags) GetString(ctx context.Context, flag string, defaultValue string) string {
	return m.Called(ctx, flag, defaultValue).String(0)
}

func (m *MockFeatureFlags) GetInt(ctx context.Context, flag string, defaultValue int) int {
	return m.Called(ctx, flag, defaultValue).Int(0)
}
