package model

import (
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInventoryFinalPrice(t *testing.T) {
	tests := []struct {
		name  string
		inv   Inventory
		price string
	}{
		{"none", Inventory{SalePrice: decimal.NewFromInt(50), DiscountType: DiscountNone}, "50"},
		{"percent", Inventory{SalePrice: decimal.NewFromInt(50), DiscountType: DiscountPercent, DiscountValue: decimal.NewFromInt(10)}, "45"},
		{"amount", Inventory{SalePrice: decimal.NewFromInt(50), DiscountType: DiscountAmount, DiscountValue: decimal.NewFromInt(7)}, "43"},
		{"amount never negative", Inventory{SalePrice: decimal.NewFromInt(5), DiscountType: DiscountAmount, DiscountValue: decimal.NewFromInt(9)}, "0"},
		{"rounds to cents", Inventory{SalePrice: decimal.RequireFromString("9.99"), DiscountType: DiscountPercent, DiscountValue: decimal.NewFromInt(15)}, "8.49"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.price).Equal(tt.inv.FinalPrice()), "got %s", tt.inv.FinalPrice())
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusAccepted))
	assert.True(t, StatusPending.CanTransitionTo(StatusShipped))
	assert.True(t, StatusShipped.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusAccepted.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusShipped.CanTransitionTo(StatusAccepted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))

	assert.True(t, StatusAccepted.HoldsStock())
	assert.True(t, StatusCompleted.HoldsStock())
	assert.False(t, StatusPending.HoldsStock())
	assert.False(t, StatusCancelled.HoldsStock())
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus(" Shipped ")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, st)

	_, ok = ParseOrderStatus("refunded")
	assert.False(t, ok)
}

func TestContactFromSnapshot(t *testing.T) {
	c := ContactFromSnapshot(types.JSONText(`{"name":"Ayu","email":" Ayu@Mail.COM ","extra":{"x":1}}`))
	assert.Equal(t, "Ayu", c.Name)
	assert.Equal(t, "ayu@mail.com", c.Email)

	assert.Equal(t, Contact{}, ContactFromSnapshot(nil))
	assert.Equal(t, Contact{}, ContactFromSnapshot(types.JSONText(`not json`)))
}
