package models

import (
	"time"

	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// Message is one entry in a user's support thread. FromCard marks rows
// generated by the FAQ card widget so the admin view can hide them.
type Message struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64          `gorm:"column:user_id;not null;index"`
	OrderID   *int64         `gorm:"column:order_id"`
	FromRole  enums.UserRole `gorm:"column:from_role;not null"`
	Text      string         `gorm:"column:text;type:text;not null"`
	FromCard  bool           `gorm:"column:from_card;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
