package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/google/uuid"
)

// FileStore is a MemStore that snapshots both collections to a JSON file
// on every successful insert, so the catalog survives a restart.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	brands   []Brand
	products []Product
}

type fileSnapshot struct {
	Brands   []Brand   `json:"brands"`
	Products []Product `json:"products"`
}

// NewFileStore loads the snapshot at path, or starts from the seed data
// when no snapshot exists yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		brands:   seedBrands(),
		products: seedProducts(),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snap fileSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	if len(snap.Brands) > 0 {
		s.brands = snap.Brands
	}
	s.products = snap.Products
	return s, nil
}

func (s *FileStore) Ping(ctx context.Context) error { return nil }

func (s *FileStore) ListBrands(ctx context.Context) ([]Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Brand, len(s.brands))
	copy(out, s.brands)
	return out, nil
}

func (s *FileStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *FileStore) InsertProduct(ctx context.Context, candidate Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name == candidate.Name && p.BrandID == candidate.BrandID {
			return Product{}, ErrDuplicateProduct
		}
	}

	candidate.ID = "p_" + uuid.NewString()
	s.products = append(s.products, candidate)

	if err := s.persist(); err != nil {
		s.products = s.products[:len(s.products)-1]
		return Product{}, err
	}
	return candidate, nil
}

// persist writes the snapshot through a temp file and rename, so a crash
// mid-write never leaves a truncated snapshot behind. Caller holds mu.
func (s *FileStore) persist() error {
	raw, err := json.MarshalIndent(fileSnapshot{Brands: s.brands, Products: s.products}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
