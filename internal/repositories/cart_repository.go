package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ErrInvalidItem is returned by ReplaceAll when an item has no product id.
var ErrInvalidItem = errors.New("cart item has no product id")

// CartRepository defines the interface for cart item data access.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	// Upsert inserts the item or, when the (user, product) pair exists, adds
	// its quantity to the stored one and overwrites title, price and image.
	Upsert(ctx context.Context, item *models.CartItem) (uint, error)
	UpdateQuantity(ctx context.Context, userID uint, productID int64, quantity int) (bool, error)
	Delete(ctx context.Context, userID uint, productID int64) (bool, error)
	DeleteAll(ctx context.Context, userID uint) (bool, error)
	// ReplaceAll swaps the user's cart for items in a single transaction.
	ReplaceAll(ctx context.Context, userID uint, items []models.CartItem) error
}
