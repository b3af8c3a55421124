package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. The *_json columns hold the raw
// variant blobs; parsing and normalization live in internal/catalog.
type Product struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string          `gorm:"column:name;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Description    *string         `gorm:"column:description;type:text"`
	ImageURL       *string         `gorm:"column:image_url"`
	ImageURLsJSON  *string         `gorm:"column:image_urls_json;type:text"`
	SizeImagesJSON *string         `gorm:"column:size_images_json;type:text"`
	SizeColorsJSON *string         `gorm:"column:size_colors_json;type:text"`
	SizeStockJSON  *string         `gorm:"column:size_stock_json;type:text"`
	Category       *string         `gorm:"column:category"`
	MainCategory   *string         `gorm:"column:main_category"`
	SubCategory    *string         `gorm:"column:sub_category"`
	AttributesJSON *string         `gorm:"column:attributes_json;type:text"`
	Stock          int             `gorm:"column:stock;not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
