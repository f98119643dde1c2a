package cart

import (
	"testing"

	"github.com/Kariqs/amexan-eats/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(price string, qty int) models.CartItem {
	return models.CartItem{
		Quantity: qty,
		Food:     &models.Food{Price: decimal.RequireFromString(price)},
	}
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name  string
		items []models.CartItem
		want  string
	}{
		{"empty", nil, "0"},
		{"two lines", []models.CartItem{line("9.99", 2), line("3.50", 1)}, "23.48"},
		{"no float drift", []models.CartItem{line("0.10", 1), line("0.20", 1)}, "0.30"},
		{"many cents", []models.CartItem{line("0.01", 100)}, "1"},
		{"missing food", []models.CartItem{{Quantity: 3}, line("1.25", 2)}, "2.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalPrice(tt.items)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestTotalItems(t *testing.T) {
	assert.Equal(t, 0, TotalItems(nil))
	assert.Equal(t, 3, TotalItems([]models.CartItem{line("9.99", 2), line("3.50", 1)}))
}
