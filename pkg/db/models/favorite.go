package models

import "time"

// Favorite links a user to a liked product.
type Favorite struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index:favorites_user_id_idx;uniqueIndex:favorites_user_product_key"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:favorites_user_product_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
