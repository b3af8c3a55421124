package models

import (
	"time"

	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// Order is a customer purchase; money totals are derived from the items
// plus the flat shipping fee and are not stored denormalized.
type Order struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64             `gorm:"column:user_id;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	User      *User             `gorm:"foreignKey:UserID"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
