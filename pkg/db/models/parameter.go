package models

import "time"

// Parameter is a global attribute name (Color, Diagonal, ...), shared across
// shops and upserted by name during ingestion.
type Parameter struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
