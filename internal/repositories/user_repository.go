package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetPublicByID loads only id, name and email.
	GetPublicByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, profile models.ProfileUpdate) (bool, error)
}
