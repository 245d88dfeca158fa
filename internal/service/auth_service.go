package service

import (
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medibook/internal/db"
	errs "medibook/internal/errors"
	"medibook/internal/repository"
)

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Role           string
	Specialization string
	ClinicName     string
}

type AuthService interface {
	Register(input RegisterInput) (*db.User, error)
	Login(email, password string) (string, error)
}

type authService struct {
	repo repository.UserRepository
}

func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Register(input RegisterInput) (*db.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, errs.InvalidInput("name and email are required")
	}
	if len(input.Password) < 6 {
		return nil, errs.InvalidInput("password must be at least 6 characters")
	}

	role := input.Role
	if role == "" {
		role = db.RolePatient
	}
	if role != db.RolePatient && role != db.RoleDoctor {
		return nil, errs.InvalidInput("role must be patient or doctor")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.InvalidInput("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		Email:          email,
		PasswordHash:   string(hash),
		Phone:          input.Phone,
		Role:           role,
		Specialization: input.Specialization,
		ClinicName:     input.ClinicName,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errs.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errs.Unauthorized("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errs.NewHTTPError(500, "JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
