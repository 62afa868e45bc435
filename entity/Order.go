package entity

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Status OrderStatus `gorm:"type:text;default:'pending';index" json:"status"`

	// minor units; all money arithmetic stays in int64
	TotalAmount int64 `json:"totalAmount"`

	PaymentStatus PaymentStatus `gorm:"type:text;default:'unpaid'" json:"paymentStatus"`
	PaymentMethod PaymentMethod `gorm:"type:text;default:''" json:"paymentMethod"`

	TableID uint  `gorm:"index" json:"tableId"`
	Table   Table `json:"-"` // preload only when the table number is needed

	ServerID  *uint `json:"serverId"`
	Server    *User `gorm:"foreignKey:ServerID" json:"-"`
	CashierID *uint `json:"cashierId"`
	Cashier   *User `gorm:"foreignKey:CashierID" json:"-"`

	SpecialInstructions string `json:"specialInstructions"`
	Feedback            string `json:"feedback"`

	// opaque session token, not an authenticated identity
	GuestName      string `json:"guestName"`
	GuestSessionID string `gorm:"index" json:"guestSessionId"`

	CompletedAt *time.Time `json:"completedAt"`

	OrderItems []OrderItem `json:"items,omitempty"`
}
