// Package checkout turns the signed-in user's cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Kariqs/amexan-eats/cart"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
)

var (
	ErrNoIdentity     = cart.ErrNoIdentity
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingDetails = errors.New("name and address are required")
)

// Details identify who receives the order and where.
type Details struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Service struct {
	remote store.Remote
	cart   *cart.Engine
}

func NewService(remote store.Remote, engine *cart.Engine) *Service {
	return &Service{remote: remote, cart: engine}
}

// PlaceOrder records the current cart as a pending order, snapshotting unit
// prices, and empties the cart. If the order lines cannot be written the
// order is cancelled and the cart is left as it was.
func (s *Service) PlaceOrder(ctx context.Context, details Details) (models.Order, error) {
	identity := s.cart.Identity()
	if identity == "" {
		return models.Order{}, ErrNoIdentity
	}
	details.Name = strings.TrimSpace(details.Name)
	details.Address = strings.TrimSpace(details.Address)
	if details.Name == "" || details.Address == "" {
		return models.Order{}, ErrMissingDetails
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	for _, item := range items {
		if item.Food == nil {
			return models.Order{}, store.Errorf(store.CodeInvalid, "food %s is no longer available", item.FoodID)
		}
	}

	var orders []models.Order
	err := s.remote.Insert(ctx, store.TableOrders, []store.Row{{
		"user_id":     identity,
		"total_price": cart.TotalPrice(items),
		"status":      models.OrderStatusPending,
		"name":        details.Name,
		"address":     details.Address,
	}}, &orders)
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	if len(orders) != 1 {
		return models.Order{}, store.Errorf(store.CodeInvalid, "create order: expected 1 row, got %d", len(orders))
	}
	order := orders[0]

	rows := make([]store.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, store.Row{
			"order_id": order.ID,
			"food_id":  item.FoodID,
			"quantity": item.Quantity,
			"price":    item.Food.Price,
		})
	}
	if err := s.remote.Insert(ctx, store.TableOrderItems, rows, &order.OrderItems); err != nil {
		filter := store.Filter{"id": order.ID, "user_id": identity}
		cancel := store.Row{"status": models.OrderStatusCancelled}
		if cancelErr := s.remote.Update(ctx, store.TableOrders, cancel, filter); cancelErr != nil {
			log.Printf("Failed to cancel incomplete order %s: %v", order.ID, cancelErr)
		}
		return models.Order{}, fmt.Errorf("create order items: %w", err)
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		log.Printf("Order %s placed but the cart was not cleared: %v", order.ID, err)
	}
	return order, nil
}

// History returns the signed-in user's orders, newest first.
func (s *Service) History(ctx context.Context) ([]models.Order, error) {
	identity := s.cart.Identity()
	if identity == "" {
		return nil, ErrNoIdentity
	}
	var orders []models.Order
	err := s.remote.Select(ctx, store.Query{
		Table:  store.TableOrders,
		Filter: store.Filter{"user_id": identity},
		Order:  []store.Order{store.Desc("created_at"), store.Desc("id")},
		Embed:  []string{store.TableOrderItems},
	}, &orders)
	return orders, err
}
