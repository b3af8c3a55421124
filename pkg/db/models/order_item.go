package models

import "github.com/shopspring/decimal"

// OrderItem snapshots the unit price at placement time so later catalog
// edits never change historical totals.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
}
