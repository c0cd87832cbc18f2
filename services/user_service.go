package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/repositories"
)

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)
}

// UpdateProfileInput carries partial profile updates. Nil fields keep the
// stored value. ImageURL is the exception to the usual empty-keeps rule:
// when present it always overrides, so clients can clear a picture by
// sending an empty string.
type UpdateProfileInput struct {
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Position *string `json:"position"`
	ImageURL *string `json:"imageUrl"`
	Year     *string `json:"yearOrGrade"`
	Mobile   *string `json:"mobile"`
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Profile.Name = *input.Name
	}
	if input.Age != nil && *input.Age != 0 {
		user.Profile.Age = input.Age
	}
	if input.Position != nil && *input.Position != "" {
		user.Profile.Position = input.Position
	}
	if input.ImageURL != nil {
		if *input.ImageURL == "" {
			user.Profile.ImageURL = nil
		} else {
			user.Profile.ImageURL = input.ImageURL
		}
	}
	if input.Year != nil && *input.Year != "" {
		user.Profile.Year = input.Year
	}
	if input.Mobile != nil && *input.Mobile != "" {
		user.Profile.Mobile = input.Mobile
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %d: %w", userID, err)
	}
	return user, nil
}
