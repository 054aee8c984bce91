package models

import "time"

// OrderItem is one basket line: a listing plus quantity. Unique per
// (order, product_info); immutable once the order leaves basket state.
type OrderItem struct {
	ID            uint         `gorm:"column:id;primaryKey"`
	OrderID       uint         `gorm:"column:order_id;not null;uniqueIndex:ux_order_items_order_info"`
	ProductInfoID uint         `gorm:"column:product_info_id;not null;uniqueIndex:ux_order_items_order_info"`
	Quantity      int          `gorm:"column:quantity;not null"`
	ProductInfo   *ProductInfo `gorm:"foreignKey:ProductInfoID"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
}
