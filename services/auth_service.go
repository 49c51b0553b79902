package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.Manager, error)
	// Login returns a signed bearer token carrying the manager role.
	Login(ctx context.Context, email, password string) (string, *models.Manager, error)
}

type authService struct {
	managerRepo repositories.ManagerRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthService(managerRepo repositories.ManagerRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		managerRepo: managerRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.Manager, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidationFailed)
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	manager := &models.Manager{Email: email, PasswordHash: string(hashedPassword)}
	if err := s.managerRepo.Create(ctx, manager); err != nil {
		if errors.Is(err, repositories.ErrManagerEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}

	manager.PasswordHash = ""
	return manager, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Manager, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	manager, err := s.managerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrManagerNotFound) {
			return "", nil, ErrAuthInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find manager by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, ErrAuthInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  manager.ID,
		"role": string(models.RoleManager),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	manager.PasswordHash = ""
	return signed, manager, nil
}
