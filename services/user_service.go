package services

import (
	"errors"
	"fmt"

	"backend/entity"
	"backend/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the admin staff-management surface.
type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

type CreateUserReq struct {
	Username string      `json:"username" binding:"required,min=3"`
	Password string      `json:"password" binding:"required,min=6"`
	Name     string      `json:"name" binding:"required,min=2"`
	Email    string      `json:"email" binding:"required,email"`
	Role     entity.Role `json:"role" binding:"required"`
}

func (s *UserService) List() ([]entity.User, error) {
	return s.Repo.List()
}

func (s *UserService) Get(id uint) (*entity.User, error) {
	u, err := s.Repo.ByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "user", ID: id}
	}
	return u, err
}

func (s *UserService) Create(req *CreateUserReq) (*entity.User, error) {
	if !req.Role.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown role %q", req.Role)}
	}
	existing, err := s.Repo.ByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Msg: fmt.Sprintf("username %q already taken", req.Username)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := entity.User{
		Username: req.Username,
		Password: string(hash),
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	}
	if err := s.Repo.Create(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Update(id uint, name, email *string, role *entity.Role) (*entity.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}
	if email != nil {
		updates["email"] = *email
	}
	if role != nil {
		if !role.Valid() {
			return nil, &ValidationError{Msg: fmt.Sprintf("unknown role %q", *role)}
		}
		updates["role"] = *role
	}
	if len(updates) == 0 {
		return u, nil
	}
	if err := s.Repo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *UserService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
