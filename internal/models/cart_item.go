package models

import "time"

// CartItem is one product line in a user's cart.
// The (user_id, product_id) pair is unique. In JSON the product id is
// rendered as "id"; the row id and owner columns are not exposed.
type CartItem struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"-" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID int64     `json:"id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Email     string    `json:"-" gorm:"type:varchar(255)"` // snapshot of the owner's email at add time
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	Price     float64   `json:"price" gorm:"not null"`
	Image     string    `json:"image,omitempty" gorm:"type:varchar(1024)"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
