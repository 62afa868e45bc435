package services

import (
	"errors"
	"fmt"

	"backend/entity"
	"backend/repository"
	"backend/ws"

	"gorm.io/gorm"
)

type MenuService struct {
	DB    *gorm.DB
	Repo  *repository.MenuRepository
	Notif *NotificationService
}

func NewMenuService(db *gorm.DB, repo *repository.MenuRepository, notif *NotificationService) *MenuService {
	return &MenuService{DB: db, Repo: repo, Notif: notif}
}

// ---------------- Categories ----------------

func (s *MenuService) ListCategories() ([]entity.Category, error) {
	return s.Repo.ListCategories()
}

func (s *MenuService) CreateCategory(name, description string) (*entity.Category, error) {
	if name == "" {
		return nil, &ValidationError{Msg: "category name is required"}
	}
	c := entity.Category{Name: name, Description: description, IsActive: true}
	if err := s.Repo.CreateCategory(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MenuService) GetCategory(id uint) (*entity.Category, error) {
	c, err := s.Repo.GetCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "category", ID: id}
	}
	return c, err
}

func (s *MenuService) UpdateCategory(id uint, updates map[string]any) (*entity.Category, error) {
	if _, err := s.GetCategory(id); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateCategory(id, updates); err != nil {
		return nil, err
	}
	return s.GetCategory(id)
}

func (s *MenuService) DeleteCategory(id uint) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	return s.Repo.DeleteCategory(id)
}

// ---------------- Menu items ----------------

func (s *MenuService) ListItems(categoryID *uint) ([]entity.MenuItem, error) {
	return s.Repo.ListItems(categoryID)
}

func (s *MenuService) GetItem(id uint) (*entity.MenuItem, error) {
	m, err := s.Repo.GetItem(s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "menu item", ID: id}
	}
	return m, err
}

func (s *MenuService) CreateItem(m *entity.MenuItem) (*entity.MenuItem, error) {
	if m.Name == "" {
		return nil, &ValidationError{Msg: "menu item name is required"}
	}
	if m.Price <= 0 {
		return nil, &ValidationError{Msg: "menu item price must be positive"}
	}
	if err := s.Repo.CreateItem(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) UpdateItem(id uint, updates map[string]any) (*entity.MenuItem, error) {
	if _, err := s.GetItem(id); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateItem(id, updates); err != nil {
		return nil, err
	}
	return s.GetItem(id)
}

func (s *MenuService) DeleteItem(id uint) error {
	if _, err := s.GetItem(id); err != nil {
		return err
	}
	return s.Repo.DeleteItem(id)
}

// SetAvailability flips a dish on or off the menu and tells every
// connected client; price snapshots on existing orders are untouched.
func (s *MenuService) SetAvailability(id uint, available bool) (*entity.MenuItem, error) {
	m, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateItem(id, map[string]any{"is_available": available}); err != nil {
		return nil, err
	}
	m.IsAvailable = available

	verb := "available"
	if !available {
		verb = "unavailable"
	}
	s.Notif.Emit(entity.EventMenuAvailabilityChange,
		fmt.Sprintf("%s is now %s", m.Name, verb),
		ws.MenuAvailabilityPayload{MenuItemID: m.ID, Name: m.Name, IsAvailable: available},
		nil)
	return m, nil
}
