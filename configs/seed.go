package configs

import (
	"backend/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedStaff creates one user per role so a fresh install is usable.
func SeedStaff() error {
	users := []struct {
		username, password, name, email string
		role                            entity.Role
	}{
		{"admin", "admin123", "Administrator", "admin@restaurant.local", entity.RoleAdmin},
		{"waiter", "waiter123", "Default Waiter", "waiter@restaurant.local", entity.RoleWaiter},
		{"cashier", "cashier123", "Default Cashier", "cashier@restaurant.local", entity.RoleCashier},
	}

	for _, u := range users {
		var count int64
		if err := db.Model(&entity.User{}).Where("username = ?", u.username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := entity.User{
			Username: u.username,
			Password: string(hash),
			Name:     u.name,
			Email:    u.email,
			Role:     u.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedLookups creates tables and a starter menu when the database is empty.
func SeedLookups() error {
	var tableCount int64
	if err := db.Model(&entity.Table{}).Count(&tableCount).Error; err != nil {
		return err
	}
	if tableCount == 0 {
		for n := 1; n <= 8; n++ {
			seats := 4
			if n > 6 {
				seats = 8
			}
			t := entity.Table{Number: n, Seats: seats, Status: entity.TableAvailable}
			if err := db.Create(&t).Error; err != nil {
				return err
			}
		}
	}

	var catCount int64
	if err := db.Model(&entity.Category{}).Count(&catCount).Error; err != nil {
		return err
	}
	if catCount > 0 {
		return nil
	}

	menu := []struct {
		category string
		items    []entity.MenuItem
	}{
		{"Starters", []entity.MenuItem{
			{Name: "Spring Rolls", Description: "Crispy vegetable rolls", Price: 12000, IsAvailable: true},
			{Name: "Tom Yum Soup", Description: "Hot and sour soup with prawns", Price: 18000, IsAvailable: true},
		}},
		{"Mains", []entity.MenuItem{
			{Name: "Pad Thai", Description: "Stir-fried rice noodles", Price: 24000, IsAvailable: true},
			{Name: "Green Curry", Description: "With jasmine rice", Price: 26000, IsAvailable: true},
			{Name: "Grilled Sea Bass", Description: "Whole fish, lime and chili", Price: 45000, IsAvailable: true},
		}},
		{"Drinks", []entity.MenuItem{
			{Name: "Thai Iced Tea", Price: 8000, IsAvailable: true},
			{Name: "Fresh Coconut", Price: 9000, IsAvailable: true},
		}},
	}

	for _, m := range menu {
		cat := entity.Category{Name: m.category, IsActive: true}
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
		for _, item := range m.items {
			item.CategoryID = cat.ID
			if err := db.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
