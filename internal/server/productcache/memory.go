package productcache

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// MemoryStore is a mutex-guarded in-process Store. It backs tests and
// redis-less deployments.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[int64][]scaleapi.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[int64][]scaleapi.Product)}
}

func (s *MemoryStore) Get(ctx context.Context, deviceID int64) ([]scaleapi.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, ok := s.m[deviceID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]scaleapi.Product(nil), products...), nil
}

func (s *MemoryStore) Set(ctx context.Context, deviceID int64, products []scaleapi.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[deviceID] = append([]scaleapi.Product(nil), products...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, deviceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, deviceID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
