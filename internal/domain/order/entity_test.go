package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/pricing"
)

func lines() []cart.LineItem {
	return []cart.LineItem{
		{ProductID: "p-1", IdentityKey: "p-1", Title: "Frango", UnitPrice: decimal.RequireFromString("29.90"), Quantity: 1},
		{ProductID: "p-2", IdentityKey: "p-2", Title: "Salada", UnitPrice: decimal.RequireFromString("15.00"), Quantity: 2},
	}
}

func TestNewOrder(t *testing.T) {
	items := lines()
	breakdown := pricing.NewBreakdown(items, pricing.Resolved(decimal.RequireFromString("5.90")))

	o, err := NewOrder("o-1", "u-1", "a-1", "pix", items, breakdown)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "65.80", o.Total.StringFixed(2))
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "o-1", o.Items[1].OrderID)
	assert.Equal(t, 2, o.Items[1].Quantity)
}

func TestNewOrder_Invalid(t *testing.T) {
	items := lines()
	final := pricing.NewBreakdown(items, pricing.Resolved(decimal.Zero))

	tests := []struct {
		name      string
		id        string
		items     []cart.LineItem
		breakdown pricing.Breakdown
		wantErr   error
	}{
		{name: "missing id", id: "", items: items, breakdown: final, wantErr: ErrMissingField},
		{name: "no items", id: "o-1", items: nil, breakdown: final, wantErr: ErrNoItems},
		{name: "fee unresolved", id: "o-1", items: items, breakdown: pricing.NewBreakdown(items, pricing.Unresolved()), wantErr: ErrTotalNotFinal},
		{name: "stale pricing", id: "o-1", items: items[:1], breakdown: final, wantErr: ErrPricingMismatch},
		{name: "zero quantity", id: "o-1", items: []cart.LineItem{{ProductID: "p-1", UnitPrice: decimal.NewFromInt(1)}},
			breakdown: pricing.NewBreakdown(nil, pricing.Resolved(decimal.Zero)), wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder(tt.id, "u-1", "a-1", "pix", tt.items, tt.breakdown)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, o)
		})
	}
}

func TestOrder_LineItems(t *testing.T) {
	o := &Order{Items: []Item{{ProductID: "p-1", Quantity: 2, Price: decimal.NewFromInt(3), Notes: "Substitutions: Rice: Quinoa"}}}

	got := o.LineItems()

	require.Len(t, got, 1)
	assert.Equal(t, cart.IdentityKey("p-1", "Substitutions: Rice: Quinoa"), got[0].IdentityKey)
	assert.Equal(t, 2, got[0].Quantity)
}
