package entity

import (
	"gorm.io/gorm"
)

type Table struct {
	gorm.Model
	Number int         `gorm:"uniqueIndex" json:"number"`
	Seats  int         `json:"seats"`
	Status TableStatus `gorm:"type:text;default:'available'" json:"status"`

	Orders []Order `json:"-"`
}
