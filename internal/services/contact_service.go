package services

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ContactService stores messages sent through the contact form.
type ContactService struct {
	repo      repositories.ContactRepository
	publisher EventPublisher
}

// NewContactService creates a new ContactService. publisher may be nil.
func NewContactService(repo repositories.ContactRepository, publisher EventPublisher) *ContactService {
	return &ContactService{repo: repo, publisher: publisher}
}

// SaveMessage appends a message and returns its id.
func (s *ContactService) SaveMessage(ctx context.Context, name, email, message string) (uint, error) {
	contact := &models.Contact{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}
	if contact.Name == "" || contact.Email == "" || contact.Message == "" {
		return 0, fmt.Errorf("name, email and message are required: %w", ErrValidation)
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return 0, err
	}

	publish(s.publisher, EventContactReceived, map[string]interface{}{
		"contactId": contact.ID,
		"email":     contact.Email,
	})
	return contact.ID, nil
}
