package models

import "time"

// Shop is a supplier storefront. Created on the owner's first price list
// upload, at most one per (name, user). State gates whether the shop is
// currently accepting orders.
type Shop struct {
	ID         uint       `gorm:"column:id;primaryKey"`
	Name       string     `gorm:"column:name;not null;uniqueIndex:ux_shops_name_user"`
	UserID     uint       `gorm:"column:user_id;not null;uniqueIndex:ux_shops_name_user"`
	State      bool       `gorm:"column:state;not null;default:true"`
	User       *User      `gorm:"foreignKey:UserID"`
	Categories []Category `gorm:"many2many:shop_categories;"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
