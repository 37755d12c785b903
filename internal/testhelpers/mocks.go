package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a testify mock of storage.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockTokenCache is a testify mock of cache.TokenCache
type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) Get(ctx context.Context, key string) (uint, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockTokenCache) Set(ctx context.Context, key string, userID uint) error {
	args := m.Called(ctx, key, userID)
	return args.Error(0)
}

func (m *MockTokenCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
