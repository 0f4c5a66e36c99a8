package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"docanalyzer/internal/port"
)

// MockImageStore is a mock implementation of port.ImageStore.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, img port.DocumentImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockImageStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
