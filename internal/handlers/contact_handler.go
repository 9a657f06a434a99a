package handlers

import (
	"errors"
	"log"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles the contact form endpoint.
type ContactHandler struct {
	service *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// RegisterRoutes registers the contact route behind requireAuth.
func (h *ContactHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Post("/contact", requireAuth, h.HandleCreateContact)
}

// ContactRequest represents the request body of the contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HandleCreateContact stores a contact message.
func (h *ContactHandler) HandleCreateContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing contact request body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_BODY")
	}

	contactID, err := h.service.SaveMessage(c.UserContext(), req.Name, req.Email, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return errorResponse(c, fiber.StatusBadRequest, "Name, email and message are required", "MISSING_FIELDS")
		}
		log.Printf("Error saving contact message: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not save message", "DB_ERROR")
	}

	return c.JSON(fiber.Map{
		"message":   "Message received",
		"contactId": contactID,
	})
}
