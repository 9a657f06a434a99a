package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService handles business logic for per-user carts.
type CartService struct {
	repo      repositories.CartRepository
	publisher EventPublisher
}

// NewCartService creates a new CartService. publisher may be nil.
func NewCartService(repo repositories.CartRepository, publisher EventPublisher) *CartService {
	return &CartService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListItems returns the user's cart.
func (s *CartService) ListItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AddItem adds item to the cart, merging with an existing line for the same
// product: quantities add up, title, price and image are replaced. A
// quantity below 1 is treated as 1. email is stored as a snapshot.
func (s *CartService) AddItem(ctx context.Context, userID uint, email string, item models.CartItem) (uint, error) {
	if item.ProductID <= 0 {
		return 0, fmt.Errorf("product id %d: %w", item.ProductID, ErrValidation)
	}
	if item.Price < 0 {
		return 0, fmt.Errorf("price %v: %w", item.Price, ErrValidation)
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	item.ID = 0
	item.UserID = userID
	item.Email = email
	return s.repo.Upsert(ctx, &item)
}

// SetQuantity replaces the quantity of a line. It reports false when the
// product is not in the cart.
func (s *CartService) SetQuantity(ctx context.Context, userID uint, productID int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity %d: %w", quantity, ErrValidation)
	}
	return s.repo.UpdateQuantity(ctx, userID, productID, quantity)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID uint, productID int64) (bool, error) {
	return s.repo.Delete(ctx, userID, productID)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID uint) (bool, error) {
	return s.repo.DeleteAll(ctx, userID)
}

// ReplaceAll swaps the whole cart for items atomically. Lines for the same
// product are merged before storing. Nothing changes when any item has no
// product id or when a write fails.
func (s *CartService) ReplaceAll(ctx context.Context, userID uint, email string, items []models.CartItem) error {
	merged := make([]models.CartItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return fmt.Errorf("cart item without product id: %w", ErrValidation)
		}
		if item.Price < 0 {
			return fmt.Errorf("price %v: %w", item.Price, ErrValidation)
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		item.Email = email
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			merged[i].Title = item.Title
			merged[i].Price = item.Price
			merged[i].Image = item.Image
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	if err := s.repo.ReplaceAll(ctx, userID, merged); err != nil {
		if errors.Is(err, repositories.ErrInvalidItem) {
			return fmt.Errorf("%v: %w", err, ErrValidation)
		}
		return err
	}

	publish(s.publisher, EventCartReplaced, map[string]interface{}{
		"userId": userID,
		"items":  len(merged),
	})
	return nil
}
