package handlers

import (
	"errors"
	"log"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RefreshCookie is the name of the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	validate     *validator.Validate
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		validate:     validator.New(),
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers the authentication routes. requireAuth guards
// the verify endpoint.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/verify", requireAuth, h.HandleVerify)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// userSummary is the public view of a user returned by the auth endpoints.
func userSummary(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_BODY")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Name, email and password are required",
			"code":   "MISSING_FIELDS",
			"fields": validationMessages(err),
		})
	}

	userID, err := h.authService.RegisterUser(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return errorResponse(c, fiber.StatusBadRequest, "Name, email and password are required", "MISSING_FIELDS")
		case errors.Is(err, services.ErrDuplicateEmail):
			return errorResponse(c, fiber.StatusConflict, "Email already registered", "EMAIL_EXISTS")
		default:
			log.Printf("Error registering user: %v", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Could not register user", "DB_ERROR")
		}
	}

	metrics.RegistrationsTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  userID,
	})
}

// HandleLogin checks credentials, returns an access token and sets the
// refresh cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_BODY")
	}
	if err := h.validate.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Email and password are required", "MISSING_FIELDS")
	}

	user, err := h.authService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "DB_ERROR")
	}
	if user == nil {
		metrics.LoginFailuresTotal.Inc()
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS")
	}

	return h.respondWithTokens(c, user)
}

// HandleRefresh exchanges the refresh cookie for a new access token and a
// new refresh cookie. The previous refresh token stays valid until expiry.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshCookie)
	if refreshToken == "" {
		return errorResponse(c, fiber.StatusUnauthorized, "Refresh token required", "NO_REFRESH_TOKEN")
	}

	claims, err := h.tokenService.VerifyRefresh(c.UserContext(), refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return errorResponse(c, fiber.StatusForbidden, "Invalid or expired refresh token", "INVALID_REFRESH_TOKEN")
		}
		log.Printf("Error verifying refresh token: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not refresh token", "DB_ERROR")
	}

	user, err := h.authService.GetUser(c.UserContext(), int64(claims.ID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return errorResponse(c, fiber.StatusForbidden, "User not found", "INVALID_REFRESH_TOKEN")
		}
		log.Printf("Error loading user %d for refresh: %v", claims.ID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not refresh token", "DB_ERROR")
	}

	return h.respondWithTokens(c, user)
}

// HandleLogout clears the refresh cookie. Issued tokens are not revoked.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(h.refreshCookie("", time.Unix(0, 0)))
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleVerify returns the user behind a valid access token.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	userID := int64(middleware.UserID(c))
	user, err := h.authService.GetUser(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrInvalidArgument) {
			return errorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND")
		}
		log.Printf("Error verifying user %d: %v", userID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not verify user", "DB_ERROR")
	}
	return c.JSON(fiber.Map{"user": userSummary(user)})
}

func (h *AuthHandler) respondWithTokens(c *fiber.Ctx, user *models.User) error {
	accessToken, err := h.tokenService.IssueAccess(user)
	if err != nil {
		log.Printf("Error issuing access token for user %d: %v", user.ID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not issue token", "TOKEN_ERROR")
	}
	refreshToken, err := h.tokenService.IssueRefresh(user)
	if err != nil {
		log.Printf("Error issuing refresh token for user %d: %v", user.ID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not issue token", "TOKEN_ERROR")
	}

	c.Cookie(h.refreshCookie(refreshToken, time.Now().Add(h.tokenService.RefreshTTL())))
	return c.JSON(fiber.Map{
		"token": accessToken,
		"user":  userSummary(user),
	})
}

func (h *AuthHandler) refreshCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
