package models

import "time"

// CartItem is one (user, food) line of a cart. Food is only populated when
// the row is selected with the "foods" embed.
type CartItem struct {
	Model
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_cart_items_user_food"`
	FoodID    string    `json:"food_id" gorm:"type:char(36);not null;uniqueIndex:idx_cart_items_user_food"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
	Food      *Food     `json:"foods,omitempty" gorm:"foreignKey:FoodID"`
}
