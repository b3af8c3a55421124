package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists all columns of an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// List returns products ordered by name, optionally filtered by a
// case-insensitive name substring. Category filtering happens in the
// service because it needs diacritic folding the database can't do.
func (r *Repository) List(ctx context.Context, nameQuery string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if q := strings.TrimSpace(nameQuery); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically subtracts qty from the product's flat stock
// counter. The guard in the WHERE clause makes oversell impossible: when
// stock is short the update matches zero rows and false is returned.
func (r *Repository) DecrementStock(ctx context.Context, productID int64, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
