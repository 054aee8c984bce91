package models

import "time"

// Product is the catalog-level item, unique per (name, category). Pricing and
// stock live on ProductInfo, one row per shop listing.
type Product struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name;not null;uniqueIndex:ux_products_name_category"`
	CategoryID uint      `gorm:"column:category_id;not null;uniqueIndex:ux_products_name_category"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
