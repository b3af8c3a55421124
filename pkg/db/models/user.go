package models

import (
	"time"

	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:client"`
	IsBlocked    bool           `gorm:"column:is_blocked;not null;default:false"`
	AvatarURL    *string        `gorm:"column:avatar_url"`
	Phone        *string        `gorm:"column:phone"`
	Country      *string        `gorm:"column:country"`
	State        *string        `gorm:"column:state"`
	City         *string        `gorm:"column:city"`
	Street       *string        `gorm:"column:street"`
	Number       *string        `gorm:"column:number"`
	Reference    *string        `gorm:"column:reference"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
