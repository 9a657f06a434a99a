package handlers

import (
	"errors"
	"log"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile reads and updates.
type UserHandler struct {
	service *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers the profile routes behind requireAuth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	userRoutes := router.Group("/user", requireAuth)
	userRoutes.Get("/:userId", h.HandleGetUser)
	userRoutes.Put("/:userId", h.HandleUpdateUser)
}

// HandleGetUser returns id, name and email of a user. Store failures are
// reported with their raw text in "details".
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	userID, ok := positiveParam(c, "userId")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID")
	}

	user, err := h.service.GetUser(c.UserContext(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidArgument):
			return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID")
		case errors.Is(err, services.ErrNotFound):
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND")
		default:
			log.Printf("Error getting user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Database error",
				"code":    "DB_ERROR",
				"details": err.Error(),
			})
		}
	}
	return c.JSON(userSummary(user))
}

// HandleUpdateUser overwrites the profile fields of a user. Fields missing
// from the body are stored empty.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	userID, ok := positiveParam(c, "userId")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID")
	}

	var profile models.ProfileUpdate
	if err := c.BodyParser(&profile); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_BODY")
	}

	changed, err := h.service.UpdateProfile(c.UserContext(), userID, profile)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID")
		}
		log.Printf("Error updating user %d: %v", userID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not update profile", "DB_ERROR")
	}
	if !changed {
		return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND")
	}

	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}
