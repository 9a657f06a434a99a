package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// ListByUser returns the user's cart in row order.
func (r *GORMCartRepository) ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart for user %d: %w", userID, err)
	}
	return items, nil
}

// Upsert merges the item into the cart with one INSERT ... ON CONFLICT
// statement and returns the id of the affected row.
func (r *GORMCartRepository) Upsert(ctx context.Context, item *models.CartItem) (uint, error) {
	var rowID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := clause.AssignmentColumns([]string{"title", "price", "image"})
		updates = append(updates, clause.Assignment{
			Column: clause.Column{Name: "quantity"},
			Value:  gorm.Expr("cart_items.quantity + excluded.quantity"),
		})

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: updates,
		}).Create(item).Error; err != nil {
			return err
		}

		// The id gorm writes back is unreliable when the conflict branch ran.
		var stored models.CartItem
		if err := tx.Select("id").
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			First(&stored).Error; err != nil {
			return err
		}
		rowID = stored.ID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add product %d to cart of user %d: %w", item.ProductID, item.UserID, err)
	}
	return rowID, nil
}

// UpdateQuantity sets an absolute quantity. It reports false when the pair
// is not in the cart.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID uint, productID int64, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update quantity of product %d for user %d: %w", productID, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes one product line from the cart.
func (r *GORMCartRepository) Delete(ctx context.Context, userID uint, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove product %d for user %d: %w", productID, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteAll empties the user's cart.
func (r *GORMCartRepository) DeleteAll(ctx context.Context, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to clear cart for user %d: %w", userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ReplaceAll deletes every row of the user's cart and inserts items. Any
// failure, including an item without a product id, rolls back the delete.
func (r *GORMCartRepository) ReplaceAll(ctx context.Context, userID uint, items []models.CartItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			item := items[i]
			if item.ProductID <= 0 {
				return ErrInvalidItem
			}
			item.ID = 0
			item.UserID = userID
			if err := tx.Create(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("product %d: %w", item.ProductID, ErrDuplicateKey)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace cart for user %d: %w", userID, err)
	}
	return nil
}
