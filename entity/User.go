package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex" json:"username"`
	Password string `json:"-"` // bcrypt hash
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Role     Role   `gorm:"type:text" json:"role"`
}
