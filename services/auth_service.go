package services

import (
	"time"

	"backend/entity"
	"backend/repository"
	"backend/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Repo      *repository.UserRepository
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Repo: repo, JWTSecret: secret, JWTTTL: ttl}
}

type LoginRes struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (s *AuthService) Login(username, password string) (*LoginRes, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Msg: "username and password are required"}
	}

	u, err := s.Repo.ByUsername(username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &ValidationError{Msg: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, &ValidationError{Msg: "invalid credentials"}
	}

	token, err := utils.GenerateToken(u.ID, u.Role, s.JWTSecret, s.JWTTTL)
	if err != nil {
		return nil, err
	}
	return &LoginRes{Token: token, User: u}, nil
}

func (s *AuthService) Me(userID uint) (*entity.User, error) {
	return s.Repo.ByID(userID)
}
