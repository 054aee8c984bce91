package models

import (
	"time"

	"github.com/retailnet/backend/pkg/enums"
)

// Order is both the live basket (state=basket) and the placed order. At most
// one basket row exists per user; checkout flips it to state=new with the
// delivery contact attached. There is no path back to basket.
type Order struct {
	ID        uint             `gorm:"column:id;primaryKey"`
	UserID    uint             `gorm:"column:user_id;not null;index"`
	State     enums.OrderState `gorm:"column:state;not null;default:'basket'"`
	ContactID *uint            `gorm:"column:contact_id"`
	User      *User            `gorm:"foreignKey:UserID"`
	Contact   *Contact         `gorm:"foreignKey:ContactID"`
	Items     []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
