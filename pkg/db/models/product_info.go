package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductInfo is the sellable unit: a product listed by a shop with the
// supplier's own SKU id, model name, prices and stock. Each price list
// ingestion inserts fresh rows by default; the upsert flag keys on
// (product, shop, external_id) instead.
type ProductInfo struct {
	ID                uint               `gorm:"column:id;primaryKey"`
	ProductID         uint               `gorm:"column:product_id;not null;index"`
	ShopID            uint               `gorm:"column:shop_id;not null;index"`
	ExternalID        uint               `gorm:"column:external_id;not null"`
	Model             string             `gorm:"column:model"`
	Price             decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	PriceRRC          decimal.Decimal    `gorm:"column:price_rrc;type:numeric(12,2);not null"`
	Quantity          int                `gorm:"column:quantity;not null"`
	Product           *Product           `gorm:"foreignKey:ProductID"`
	Shop              *Shop              `gorm:"foreignKey:ShopID"`
	ProductParameters []ProductParameter `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
