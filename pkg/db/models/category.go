package models

import "time"

// Category groups products. The id is the external identifier supplied by the
// price list document and is trusted verbatim, so two suppliers reusing the
// same id share (and overwrite) the category name. Known data-integrity risk.
type Category struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Shops     []Shop    `gorm:"many2many:shop_categories;"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
