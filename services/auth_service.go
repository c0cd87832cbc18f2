package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/repositories"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type RegisterInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

type LoginInput struct {
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register creates a user with a unique, case-folded email. The birthdate
// is stored verbatim and doubles as the login secret; this mirrors the
// documented contract of the system rather than a hardened scheme.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	user := &models.User{
		Email: normalizeEmail(input.Email),
		DOB:   strings.TrimSpace(input.DOB),
		Profile: models.PlayerProfile{
			Name: strings.TrimSpace(input.Name),
		},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates by case-insensitive email and exact birthdate string
// comparison. No calendar parsing is involved.
func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user.DOB != strings.TrimSpace(input.DOB) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
