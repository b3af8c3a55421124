package models

import "time"

// Review is an append-only product rating left by a customer.
type Review struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64     `gorm:"column:product_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   *string   `gorm:"column:comment;type:text"`
	User      *User     `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
