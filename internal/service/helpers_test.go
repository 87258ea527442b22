package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/infra/repository/kvstore"
)

// memKV is an in-memory KVStore for exercising persistence paths without redis.
type memKV struct {
	mu     sync.Mutex
	data   map[string]string
	failed bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", kvstore.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed {
		return errors.New("kv store unavailable")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func priceOf(kopecks int64) *int64 {
	return &kopecks
}

func snapshot(id, name string, kopecks int64) model.ProductSnapshot {
	return model.ProductSnapshot{
		ID:        id,
		Name:      name,
		SalePrice: priceOf(kopecks),
		Stock:     10,
	}
}
