package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_SeededData(t *testing.T) {
	s := NewMemStore()

	brands, err := s.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Apple", brands[0].Name)
	assert.Equal(t, "Samsung", brands[1].Name)

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "iPhone 13", products[0].Name)
}

func TestMemStore_InsertRoundTrip(t *testing.T) {
	s := NewMemStore()

	created, err := s.InsertProduct(context.Background(), Product{
		Name:        "MacBook Air",
		Price:       decimal.NewFromFloat(1299.50),
		Description: "thin laptop",
		Image:       "https://example.com/mba.png",
		BrandID:     "1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	got := products[2]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "MacBook Air", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(1299.50)))
	assert.Equal(t, "thin laptop", got.Description)
	assert.Equal(t, "https://example.com/mba.png", got.Image)
	assert.Equal(t, "1", got.BrandID)
}

func TestMemStore_DuplicateNameAndBrandRejected(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.InsertProduct(ctx, Product{Name: "X", Price: decimal.NewFromInt(10), BrandID: "1"})
	require.NoError(t, err)

	_, err = s.InsertProduct(ctx, Product{Name: "X", Price: decimal.NewFromInt(20), BrandID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateProduct)

	// Same name under another brand is a different product.
	_, err = s.InsertProduct(ctx, Product{Name: "X", Price: decimal.NewFromInt(10), BrandID: "2"})
	assert.NoError(t, err)
}

func TestMemStore_DuplicateCheckIsCaseSensitive(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.InsertProduct(ctx, Product{Name: "Widget", Price: decimal.NewFromInt(1), BrandID: "1"})
	require.NoError(t, err)

	_, err = s.InsertProduct(ctx, Product{Name: "widget", Price: decimal.NewFromInt(1), BrandID: "1"})
	assert.NoError(t, err)
}

func TestMemStore_ConcurrentDuplicateInserts_OneWinner(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	const writers = 16
	errs := make(chan error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertProduct(ctx, Product{Name: "Racer", Price: decimal.NewFromInt(1), BrandID: "1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var okCount, dupCount int
	for err := range errs {
		switch {
		case err == nil:
			okCount++
		case assert.ErrorIs(t, err, ErrDuplicateProduct):
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, writers-1, dupCount)
}

func TestMemStore_ListReturnsCopy(t *testing.T) {
	s := NewMemStore()

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	products[0].Name = "mutated"

	again, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "iPhone 13", again[0].Name)
}
