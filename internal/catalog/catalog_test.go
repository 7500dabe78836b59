package catalog

import (
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
  {"id": "prod_100", "name": "Desk Lamp", "description": "LED desk lamp",
   "price": 39.99, "category": "home", "stock": 12,
   "image_url": "https://example.com/lamp.jpg"},
  {"id": "prod_101", "name": "Notebook", "price": 4.50, "category": "office", "stock": 200}
]`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	products, err := Load(path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "prod_100", products[0].ID)
	assert.Equal(t, "Desk Lamp", products[0].Name)
	assert.True(t, decimal.RequireFromString("39.99").Equal(products[0].Price))
	assert.Equal(t, 12, products[0].Stock)
	assert.Equal(t, "https://example.com/lamp.jpg", products[0].ImageURL)

	assert.Equal(t, "prod_101", products[1].ID)
	assert.True(t, decimal.RequireFromString("4.50").Equal(products[1].Price))
}

func TestLoadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleCatalog))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	products, err := Load(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod_100", products[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open catalog file")
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog")
}

func TestLoadMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "No ID", "price": 1}]`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no id")
}

func TestDefault(t *testing.T) {
	products := Default()
	require.Len(t, products, 5)

	assert.Equal(t, "prod_001", products[0].ID)
	assert.Equal(t, "Wireless Headphones", products[0].Name)
	assert.True(t, decimal.RequireFromString("199.99").Equal(products[0].Price))
	assert.Equal(t, 50, products[0].Stock)

	assert.Equal(t, "prod_005", products[4].ID)
	assert.Equal(t, "Yoga Mat", products[4].Name)
}
