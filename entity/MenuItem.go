package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`

	// minor units, same convention as Order totals
	Price int64 `json:"price"`

	IsAvailable bool `gorm:"default:true" json:"isAvailable"`

	Allergies   datatypes.JSON `json:"allergies"`
	DietaryInfo datatypes.JSON `json:"dietaryInfo"`

	CategoryID uint     `gorm:"index" json:"categoryId"`
	Category   Category `json:"-"`

	OrderItems []OrderItem `json:"-"`
}
