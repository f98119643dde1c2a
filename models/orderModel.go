package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	Model
	UserID     string          `json:"user_id" gorm:"type:char(36);not null;index"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status     string          `json:"status" gorm:"size:32;not null"`
	Name       string          `json:"name" gorm:"not null"`
	Address    string          `json:"address" gorm:"not null"`
	OrderItems []OrderItem     `json:"order_items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return o.Model.BeforeCreate(tx)
}

// OrderItem keeps the unit price at the time the order was placed.
type OrderItem struct {
	Model
	OrderID  string          `json:"order_id" gorm:"type:char(36);not null;index"`
	FoodID   string          `json:"food_id" gorm:"type:char(36);not null"`
	Quantity int             `json:"quantity" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

func IsOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
