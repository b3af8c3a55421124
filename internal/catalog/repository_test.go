package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			price NUMERIC NOT NULL,
			description TEXT,
			image_url TEXT,
			image_urls_json TEXT,
			size_images_json TEXT,
			size_colors_json TEXT,
			size_stock_json TEXT,
			category TEXT,
			main_category TEXT,
			sub_category TEXT,
			attributes_json TEXT,
			stock INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		require.NoError(t, dbErr)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, mainCategory, subCategory *string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         name,
		Price:        decimal.NewFromInt(100),
		MainCategory: mainCategory,
		SubCategory:  subCategory,
		Stock:        stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Sapato Social", 3, nil, nil)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	require.False(t, ok, "decrement beyond stock must not match any row")

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Stock)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	ok, err := repo.DecrementStock(context.Background(), 9999, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListFiltersByName(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Sapato Social", 1, nil, nil)
	seedProduct(t, db, "Camisa Slim", 1, nil, nil)

	products, err := repo.List(ctx, "sapato")
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Sapato Social", products[0].Name)

	products, err = repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Camisa Slim", products[0].Name, "results ordered by name")
}

func TestServiceListCategoryFolding(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, nil)
	require.NoError(t, err)
	ctx := context.Background()

	vest := "Vestuário"
	tec := "Tecnologia"
	sapato := "Sapato"
	seedProduct(t, db, "Sapato Social", 1, &vest, &sapato)
	seedProduct(t, db, "Laptop Pro", 1, &tec, nil)
	// Legacy row: no main category, sub category set.
	seedProduct(t, db, "Calça Jeans", 1, nil, &sapato)

	dtos, err := svc.List(ctx, ListInput{MainCategory: "vestuario"})
	require.NoError(t, err)
	require.Len(t, dtos, 2, "folded match plus legacy row")

	dtos, err = svc.List(ctx, ListInput{MainCategory: "Tecnologia"})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	require.Equal(t, "Laptop Pro", dtos[0].Name)

	dtos, err = svc.List(ctx, ListInput{SubCategory: "sapato"})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
}

func TestServiceCreateSanitizesAttributes(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, nil)
	require.NoError(t, err)
	ctx := context.Background()

	vest := "Vestuário"
	sapato := "Sapato"
	dto, err := svc.Create(ctx, CreateProductInput{
		Name:         "Sapato Social",
		Price:        decimal.RequireFromString("150.00"),
		MainCategory: &vest,
		SubCategory:  &sapato,
		Attributes:   map[string]any{"marca": "X", "peso": "1kg"},
		SizeStock:    map[string]int{"40": 2, "41": 3},
		Stock:        5,
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"marca": "X"}, dto.Attributes)
	require.Equal(t, map[string]int{"40": 2, "41": 3}, dto.SizeStock)

	// Read back through the repository to confirm the stored blobs parse.
	fetched, err := svc.Get(ctx, dto.ID)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"40": 2, "41": 3}, fetched.SizeStock)
	require.Equal(t, map[string]any{"marca": "X"}, fetched.Attributes)
}

func TestServiceGetMissingProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 404)
	require.Error(t, err)
	require.Contains(t, err.Error(), "product not found")
}
