package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

type cartKey struct {
	userID    uint
	productID int64
}

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	items  map[cartKey]models.CartItem
	nextID uint
	mu     sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		items: make(map[cartKey]models.CartItem),
	}
}

// ListByUser returns the user's items ordered by row id.
func (r *MockCartRepository) ListByUser(_ context.Context, userID uint) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.CartItem, 0)
	for k, item := range r.items {
		if k.userID == userID {
			list = append(list, item)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Upsert adds the item or merges it into the existing pair.
func (r *MockCartRepository) Upsert(_ context.Context, item *models.CartItem) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := cartKey{item.UserID, item.ProductID}
	if existing, ok := r.items[k]; ok {
		existing.Quantity += item.Quantity
		existing.Title = item.Title
		existing.Price = item.Price
		existing.Image = item.Image
		r.items[k] = existing
		return existing.ID, nil
	}
	r.insert(*item)
	return r.nextID, nil
}

// UpdateQuantity sets the quantity of an existing pair.
func (r *MockCartRepository) UpdateQuantity(_ context.Context, userID uint, productID int64, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := cartKey{userID, productID}
	item, ok := r.items[k]
	if !ok {
		return false, nil
	}
	item.Quantity = quantity
	r.items[k] = item
	return true, nil
}

// Delete removes a pair.
func (r *MockCartRepository) Delete(_ context.Context, userID uint, productID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := cartKey{userID, productID}
	if _, ok := r.items[k]; !ok {
		return false, nil
	}
	delete(r.items, k)
	return true, nil
}

// DeleteAll removes every pair owned by the user.
func (r *MockCartRepository) DeleteAll(_ context.Context, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deleteAll(userID) > 0, nil
}

// ReplaceAll validates every item before touching the map, so a rejected
// call leaves the cart as it was.
func (r *MockCartRepository) ReplaceAll(_ context.Context, userID uint, items []models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return ErrInvalidItem
		}
		if seen[item.ProductID] {
			return ErrDuplicateKey
		}
		seen[item.ProductID] = true
	}

	r.deleteAll(userID)
	for _, item := range items {
		item.UserID = userID
		r.insert(item)
	}
	return nil
}

func (r *MockCartRepository) insert(item models.CartItem) {
	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now()
	r.items[cartKey{item.UserID, item.ProductID}] = item
}

func (r *MockCartRepository) deleteAll(userID uint) int {
	n := 0
	for k := range r.items {
		if k.userID == userID {
			delete(r.items, k)
			n++
		}
	}
	return n
}
