package handlers

import (
	"errors"
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
// Every successful call responds with the full cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes behind requireAuth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	cartRoutes := router.Group("/cart", requireAuth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/", h.HandleReplaceCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Put("/:productId", h.HandleSetQuantity)
	cartRoutes.Delete("/:productId", h.HandleRemoveItem)
}

// AddItemRequest represents the request body for adding a product.
type AddItemRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity"`
	Title     string  `json:"title"`
	Price     float64 `json:"price" validate:"gte=0"`
	Image     string  `json:"image"`
}

// SetQuantityRequest represents the request body for a quantity change.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ReplaceCartRequest represents the request body for replacing the cart.
// Items use the same shape the cart is rendered in.
type ReplaceCartRequest struct {
	Items []models.CartItem `json:"items"`
}

// HandleGetCart returns the cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return h.respondWithCart(c)
}

// HandleAddItem adds a product or merges it into the existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_BODY")
	}
	if err := h.validate.Struct(req); err != nil {
		messages := validationMessages(err)
		if _, ok := messages["ProductID"]; ok {
			return errorResponse(c, fiber.StatusBadRequest, "Valid productId is required", "INVALID_PRODUCT_ID")
		}
		return errorResponse(c, fiber.StatusBadRequest, "Price must not be negative", "INVALID_PRICE")
	}

	_, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), middleware.Email(c), models.CartItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Title:     req.Title,
		Price:     req.Price,
		Image:     req.Image,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid cart item", "INVALID_ITEM")
		}
		log.Printf("Error adding product %d to cart: %v", req.ProductID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not update cart", "DB_ERROR")
	}
	return h.respondWithCart(c)
}

// HandleSetQuantity sets the absolute quantity of a product in the cart.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	productID, ok := positiveParam(c, "productId")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid product ID", "INVALID_PRODUCT_ID")
	}

	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity <= 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Quantity must be a positive integer", "INVALID_QUANTITY")
	}

	changed, err := h.service.SetQuantity(c.UserContext(), middleware.UserID(c), productID, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return errorResponse(c, fiber.StatusBadRequest, "Quantity must be a positive integer", "INVALID_QUANTITY")
		}
		log.Printf("Error setting quantity of product %d: %v", productID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not update cart", "DB_ERROR")
	}
	if !changed {
		return errorResponse(c, fiber.StatusNotFound, "Item not found in cart", "ITEM_NOT_FOUND")
	}
	return h.respondWithCart(c)
}

// HandleRemoveItem removes a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID, ok := positiveParam(c, "productId")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid product ID", "INVALID_PRODUCT_ID")
	}

	removed, err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), productID)
	if err != nil {
		log.Printf("Error removing product %d from cart: %v", productID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not update cart", "DB_ERROR")
	}
	if !removed {
		return errorResponse(c, fiber.StatusNotFound, "Item not found in cart", "ITEM_NOT_FOUND")
	}
	return h.respondWithCart(c)
}

// HandleReplaceCart swaps the whole cart for the items in the body.
func (h *CartHandler) HandleReplaceCart(c *fiber.Ctx) error {
	var req ReplaceCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing replace-cart body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_BODY")
	}

	err := h.service.ReplaceAll(c.UserContext(), middleware.UserID(c), middleware.Email(c), req.Items)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return errorResponse(c, fiber.StatusBadRequest, "Every item needs a valid id", "INVALID_ITEMS")
		}
		log.Printf("Error replacing cart: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not update cart", "DB_ERROR")
	}
	return h.respondWithCart(c)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if _, err := h.service.Clear(c.UserContext(), middleware.UserID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not update cart", "DB_ERROR")
	}
	return h.respondWithCart(c)
}

func (h *CartHandler) respondWithCart(c *fiber.Ctx) error {
	items, err := h.service.ListItems(c.UserContext(), middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing cart: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load cart", "DB_ERROR")
	}
	return c.JSON(fiber.Map{"items": items})
}
