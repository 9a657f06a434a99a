package repositories

import (
	"context"

	"storefront/internal/models"
)

// ContactRepository defines the interface for the contact message log.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
}
