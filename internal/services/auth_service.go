package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new password hashes.
const PasswordCost = 10

// AuthService owns user credentials and profiles.
type AuthService struct {
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, publisher EventPublisher) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// RegisterUser validates the input, hashes the password and stores a new
// user, returning its id.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (uint, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return 0, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return 0, fmt.Errorf("email '%s': %w", email, ErrDuplicateEmail)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return 0, fmt.Errorf("email '%s': %w", email, ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("failed to register user: %w", err)
	}

	publish(s.publisher, EventUserRegistered, map[string]interface{}{
		"userId": user.ID,
		"email":  user.Email,
	})
	return user.ID, nil
}

// Authenticate returns the user matching the credentials, or nil when the
// email is unknown or the password does not match. The two cases are not
// distinguished.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Printf("Password check failed for user %d: %v", user.ID, err)
		}
		return nil, nil
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUser returns the id, name and email of a user.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user id %d: %w", id, ErrInvalidArgument)
	}
	user, err := s.userRepo.GetPublicByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites every profile field; fields left empty in
// profile are stored empty. It reports whether the user existed.
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, profile models.ProfileUpdate) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("user id %d: %w", id, ErrInvalidArgument)
	}
	return s.userRepo.UpdateProfile(ctx, uint(id), profile)
}
