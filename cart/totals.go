package cart

import (
	"github.com/Kariqs/amexan-eats/models"
	"github.com/shopspring/decimal"
)

// TotalPrice sums price × quantity exactly. Lines whose food was not
// embedded contribute nothing. Round only when displaying.
func TotalPrice(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Food == nil {
			continue
		}
		total = total.Add(item.Food.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func TotalItems(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
