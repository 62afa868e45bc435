package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is an append-only record created as a side effect of a
// successful state change. Clients that missed the live push catch up by
// polling these rows; the only mutation ever applied is flipping IsRead.
type Notification struct {
	gorm.Model
	Type    EventType      `gorm:"type:text" json:"type"`
	Message string         `json:"message"`
	Details datatypes.JSON `json:"details"`

	// nil means every staff role
	TargetRole *Role `gorm:"type:text;index" json:"targetRole"`

	IsRead bool `gorm:"default:false" json:"isRead"`
}
