// Package catalog loads the product catalog the store sells. With no
// catalog file configured the original five sample products are used.
package catalog

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

// fileProduct is the JSON shape of one catalog entry.
type fileProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// Load reads a product catalog from a JSON array file. Files ending in .gz
// are transparently decompressed.
func Load(path string) ([]product.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var entries []fileProduct
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	products := make([]product.Product, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, errors.Errorf("catalog entry %q has no id", e.Name)
		}
		products = append(products, product.Product{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       e.Price,
			Category:    e.Category,
			Stock:       e.Stock,
			ImageURL:    e.ImageURL,
		})
	}
	return products, nil
}

// Default returns the built-in sample catalog.
func Default() []product.Product {
	return []product.Product{
		{
			ID:          "prod_001",
			Name:        "Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       decimal.RequireFromString("199.99"),
			Category:    "electronics",
			Stock:       50,
			ImageURL:    "https://example.com/headphones.jpg",
		},
		{
			ID:          "prod_002",
			Name:        "Cotton T-Shirt",
			Description: "Comfortable cotton t-shirt in various colors",
			Price:       decimal.RequireFromString("24.99"),
			Category:    "clothing",
			Stock:       100,
			ImageURL:    "https://example.com/tshirt.jpg",
		},
		{
			ID:          "prod_003",
			Name:        "Programming Book",
			Description: "Comprehensive guide to modern programming",
			Price:       decimal.RequireFromString("49.99"),
			Category:    "books",
			Stock:       25,
			ImageURL:    "https://example.com/book.jpg",
		},
		{
			ID:          "prod_004",
			Name:        "Coffee Maker",
			Description: "Automatic coffee maker with timer",
			Price:       decimal.RequireFromString("89.99"),
			Category:    "home",
			Stock:       30,
			ImageURL:    "https://example.com/coffee-maker.jpg",
		},
		{
			ID:          "prod_005",
			Name:        "Yoga Mat",
			Description: "Non-slip yoga mat for home workouts",
			Price:       decimal.RequireFromString("34.99"),
			Category:    "sports",
			Stock:       75,
			ImageURL:    "https://example.com/yoga-mat.jpg",
		},
	}
}
