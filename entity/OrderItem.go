package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Quantity int `json:"quantity"`

	// price snapshot at order time; menu price changes never touch it
	Price int64 `json:"price"`

	SpecialInstructions string      `json:"specialInstructions"`
	Status              OrderStatus `gorm:"type:text;default:'pending'" json:"status"`

	// (order_id, menu_item_id) is unique; adding the same item again
	// bumps Quantity instead of inserting a second row
	OrderID uint  `gorm:"uniqueIndex:idx_order_menu_item" json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `gorm:"uniqueIndex:idx_order_menu_item" json:"menuItemId"`
	MenuItem   MenuItem `json:"-"` // preload only when the item name is needed
}
