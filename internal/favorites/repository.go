package favorites

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

// Repository wires together favorite persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProductIDs returns the ids of every product the user has liked.
func (r *Repository) ListProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Add inserts the pair, ignoring the conflict when it already exists.
func (r *Repository) Add(ctx context.Context, userID, productID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, ProductID: productID}).Error
}

// Remove deletes the pair; removing an absent favorite is a no-op.
func (r *Repository) Remove(ctx context.Context, userID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}
