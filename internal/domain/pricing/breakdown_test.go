package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal_storefront/internal/domain/cart"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	items := []cart.LineItem{
		{UnitPrice: d("10"), Quantity: 2},
		{UnitPrice: d("5"), Quantity: 1},
	}

	assert.True(t, Subtotal(items).Equal(d("25")))
}

func TestComputeTotal_UnresolvedIsNotFinal(t *testing.T) {
	pending := ComputeTotal(d("25"), Unresolved())
	free := ComputeTotal(d("25"), Resolved(decimal.Zero))

	assert.False(t, pending.Final)
	assert.True(t, free.Final)
	assert.True(t, free.Amount.Equal(d("25")))
	assert.NotEqual(t, pending, free)
}

func TestNewBreakdown_ScenarioA(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p-1", UnitPrice: d("29.90"), Quantity: 1},
		{ProductID: "p-2", UnitPrice: d("15.00"), Quantity: 2},
	}

	b := NewBreakdown(items, Resolved(d("5.90")))

	assert.Equal(t, "59.90", Display(b.Subtotal))
	assert.Equal(t, "65.80", Display(b.Total.Amount))
	assert.True(t, b.IsFinal())
}

func TestDeliveryFee_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Fee DeliveryFee `json:"fee"`
	}{Fee: Unresolved()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fee":null}`, string(raw))

	var fee DeliveryFee
	require.NoError(t, json.Unmarshal([]byte(`"5.9"`), &fee))
	amount, ok := fee.Amount()
	assert.True(t, ok)
	assert.True(t, amount.Equal(d("5.90")))

	require.NoError(t, json.Unmarshal([]byte(`null`), &fee))
	assert.False(t, fee.IsResolved())
}

func TestDeliveryFee_Equal(t *testing.T) {
	assert.True(t, Unresolved().Equal(Unresolved()))
	assert.True(t, Resolved(d("5.9")).Equal(Resolved(d("5.90"))))
	assert.False(t, Resolved(decimal.Zero).Equal(Unresolved()))
}
