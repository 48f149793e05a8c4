package pricing

import (
	"github.com/shopspring/decimal"

	"meal_storefront/internal/domain/cart"
)

// Total is subtotal plus delivery fee. It is not Final until the fee is
// resolved and must not be shown as the amount to pay before that.
type Total struct {
	Amount decimal.Decimal `json:"amount"`
	Final  bool            `json:"final"`
}

// Breakdown is the priced view of a set of lines.
type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee DeliveryFee     `json:"deliveryFee"`
	Total       Total           `json:"total"`
}

// Subtotal sums unit price times quantity without intermediate rounding.
func Subtotal(items []cart.LineItem) decimal.Decimal {
	return cart.Total(items)
}

// ComputeTotal adds the fee to subtotal. With an unresolved fee the amount is
// the subtotal alone and Final is false.
func ComputeTotal(subtotal decimal.Decimal, fee DeliveryFee) Total {
	amount, ok := fee.Amount()
	if !ok {
		return Total{Amount: subtotal, Final: false}
	}
	return Total{Amount: subtotal.Add(amount), Final: true}
}

func NewBreakdown(items []cart.LineItem, fee DeliveryFee) Breakdown {
	subtotal := Subtotal(items)
	return Breakdown{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       ComputeTotal(subtotal, fee),
	}
}

func (b Breakdown) IsFinal() bool {
	return b.Total.Final
}

// Equal compares amounts exactly.
func (b Breakdown) Equal(other Breakdown) bool {
	return b.Subtotal.Equal(other.Subtotal) &&
		b.DeliveryFee.Equal(other.DeliveryFee) &&
		b.Total.Final == other.Total.Final &&
		b.Total.Amount.Equal(other.Total.Amount)
}

// Display rounds to cents for presentation only.
func Display(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
