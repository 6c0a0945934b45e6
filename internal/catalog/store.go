package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Prices go over the wire as JSON numbers, matching the public API contract.
func init() { decimal.MarshalJSONWithoutQuotes = true }

var ErrDuplicateProduct = errors.New("product with this name and brand already exists")

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	BrandID     string          `json:"brandId"`
}

// JoinedProduct is the read-side projection of a product with its brand
// reference resolved. Brand stays nil when brandId points nowhere.
type JoinedProduct struct {
	Product
	Brand *Brand `json:"brand,omitempty"`
}

// Store holds the brand and product collections in insertion order.
// InsertProduct assigns the id and fails with ErrDuplicateProduct when a
// product with the same (name, brandId) already exists; the comparison is
// case-sensitive exact match.
type Store interface {
	ListBrands(ctx context.Context) ([]Brand, error)
	ListProducts(ctx context.Context) ([]Product, error)
	InsertProduct(ctx context.Context, candidate Product) (Product, error)
	Ping(ctx context.Context) error
}

func seedBrands() []Brand {
	return []Brand{
		{ID: "1", Name: "Apple"},
		{ID: "2", Name: "Samsung"},
	}
}

func seedProducts() []Product {
	return []Product{
		{ID: "1", Name: "iPhone 13", Price: decimal.NewFromFloat(999.99), BrandID: "1"},
		{ID: "2", Name: "Galaxy S21", Price: decimal.NewFromFloat(799.99), BrandID: "2"},
	}
}
