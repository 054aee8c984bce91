package models

import (
	"time"

	"github.com/retailnet/backend/pkg/enums"
)

// User is a registered account, either a buyer or a partner shop owner.
// Accounts start inactive until the emailed confirmation token is redeemed.
type User struct {
	ID           uint           `gorm:"column:id;primaryKey"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Company      string         `gorm:"column:company"`
	Position     string         `gorm:"column:position"`
	Type         enums.UserType `gorm:"column:type;not null;default:'buyer'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:false"`
	Contacts     []Contact      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
