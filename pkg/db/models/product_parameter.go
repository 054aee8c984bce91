package models

// ProductParameter attaches one attribute value to a listing. Rows are created
// fresh per ingestion alongside their ProductInfo.
type ProductParameter struct {
	ID            uint       `gorm:"column:id;primaryKey"`
	ProductInfoID uint       `gorm:"column:product_info_id;not null;index"`
	ParameterID   uint       `gorm:"column:parameter_id;not null"`
	Value         string     `gorm:"column:value;not null"`
	Parameter     *Parameter `gorm:"foreignKey:ParameterID"`
}
