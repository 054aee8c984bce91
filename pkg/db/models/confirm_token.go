package models

import "time"

// ConfirmToken carries the one-shot key mailed out after registration.
// Redeeming it activates the user and deletes the row.
type ConfirmToken struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex"`
	Key       string    `gorm:"column:key;not null;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
