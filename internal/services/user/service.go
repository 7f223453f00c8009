package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/notification"
	"vyuha/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a new account request.
type RegisterInput struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	InGameName string `json:"in_game_name"`
	Role       string `json:"role"`
}

// ProfileUpdate carries the fields a user may change about themselves.
type ProfileUpdate struct {
	FullName   *string `json:"full_name"`
	InGameName *string `json:"in_game_name"`
	AvatarURL  *string `json:"avatar_url"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error)
}

type service struct {
	repo     repositories.UserRepository
	notifier notification.Service
}

func NewService(repo repositories.UserRepository, notifier notification.Service) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	v := validation.New()
	v.Email("email", input.Email)
	v.Phone("phone", input.Phone)
	v.Required("username", input.Username)
	v.Password("password", input.Password)
	if !v.Valid() {
		for field, message := range v.Errors {
			return nil, fmt.Errorf("%s %s", field, message)
		}
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleOrganizer {
		return nil, errors.New("invalid role")
	}

	if existing, _ := s.repo.GetByEmail(input.Email); existing != nil {
		return nil, repositories.ErrEmailTaken
	}
	if existing, _ := s.repo.GetByPhone(input.Phone); existing != nil {
		return nil, repositories.ErrPhoneTaken
	}
	if existing, _ := s.repo.GetByUsername(input.Username); existing != nil {
		return nil, repositories.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		Username:   strings.TrimSpace(input.Username),
		Password:   string(hashedPassword),
		FullName:   input.FullName,
		InGameName: input.InGameName,
		Role:       role,
		Status:     models.UserStatusActive,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	fields := map[string]interface{}{}
	if update.FullName != nil {
		fields["full_name"] = *update.FullName
	}
	if update.InGameName != nil {
		fields["in_game_name"] = *update.InGameName
	}
	if update.AvatarURL != nil {
		fields["avatar_url"] = *update.AvatarURL
	}
	if len(fields) == 0 {
		return s.repo.GetByID(userID)
	}

	if err := s.repo.UpdateFields(userID, fields); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notification.EventProfileUpdated, userID, nil); err != nil {
			log.Printf("failed to notify user %d of profile update: %v", userID, err)
		}
	}
	return s.repo.GetByID(userID)
}
