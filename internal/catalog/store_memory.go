package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStore keeps both collections in ordered slices. The mutex makes the
// check-then-insert of InsertProduct a single critical section, so the
// uniqueness rule holds under concurrent writers.
type MemStore struct {
	mu       sync.RWMutex
	brands   []Brand
	products []Product
}

func NewMemStore() *MemStore {
	return &MemStore{
		brands:   seedBrands(),
		products: seedProducts(),
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListBrands(ctx context.Context) ([]Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Brand, len(s.brands))
	copy(out, s.brands)
	return out, nil
}

func (s *MemStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) InsertProduct(ctx context.Context, candidate Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name == candidate.Name && p.BrandID == candidate.BrandID {
			return Product{}, ErrDuplicateProduct
		}
	}

	candidate.ID = "p_" + uuid.NewString()
	s.products = append(s.products, candidate)
	return candidate, nil
}
