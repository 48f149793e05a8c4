package pricing

import (
	"github.com/shopspring/decimal"

	"meal_storefront/internal/domain/cart"
)

// Delta is after minus before for each component of a breakdown.
// DeliveryFee is only set when both fees are resolved.
type Delta struct {
	Subtotal    decimal.Decimal  `json:"subtotal"`
	DeliveryFee *decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal  `json:"total"`
}

func Compare(before, after Breakdown) Delta {
	d := Delta{
		Subtotal: after.Subtotal.Sub(before.Subtotal),
		Total:    after.Total.Amount.Sub(before.Total.Amount),
	}
	beforeFee, okBefore := before.DeliveryFee.Amount()
	afterFee, okAfter := after.DeliveryFee.Amount()
	if okBefore && okAfter {
		diff := afterFee.Sub(beforeFee)
		d.DeliveryFee = &diff
	}
	return d
}

// PriceChange is a line whose unit price moved between two snapshots.
type PriceChange struct {
	IdentityKey string          `json:"identityKey"`
	ProductID   string          `json:"productId"`
	Title       string          `json:"title"`
	Before      decimal.Decimal `json:"before"`
	After       decimal.Decimal `json:"after"`
}

func (c PriceChange) Difference() decimal.Decimal {
	return c.After.Sub(c.Before)
}

// PriceChanges matches lines by identity key and reports unit price changes,
// in the order of current.
func PriceChanges(historical, current []cart.LineItem) []PriceChange {
	before := make(map[string]decimal.Decimal, len(historical))
	for _, item := range historical {
		before[item.IdentityKey] = item.UnitPrice
	}

	var changes []PriceChange
	for _, item := range current {
		old, ok := before[item.IdentityKey]
		if !ok || old.Equal(item.UnitPrice) {
			continue
		}
		changes = append(changes, PriceChange{
			IdentityKey: item.IdentityKey,
			ProductID:   item.ProductID,
			Title:       item.Title,
			Before:      old,
			After:       item.UnitPrice,
		})
	}
	return changes
}
