package support

import (
	"context"

	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

// messageFilter carries the already-scoped query parameters down to SQL.
type messageFilter struct {
	UserID    *int64
	HideCards bool
	OrderID   *int64
	AfterID   *int64
	BeforeID  *int64
	Limit     int
}

// Repository wires together support message persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a message row.
func (r *Repository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns messages matching the filter in chronological order.
func (r *Repository) List(ctx context.Context, filter messageFilter) ([]models.Message, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.HideCards {
		query = query.Where("from_card = ?", false)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.AfterID != nil {
		query = query.Where("id > ?", *filter.AfterID)
	}
	if filter.BeforeID != nil {
		query = query.Where("id < ?", *filter.BeforeID)
	}

	var messages []models.Message
	err := query.Order("created_at ASC").Limit(filter.Limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
