package repository

import (
	"context"

	"meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/suggestion"
)

// PurchaseGraph records placed orders and answers frequency questions about them.
// RecordOrder must be idempotent per order id.
type PurchaseGraph interface {
	RecordOrder(ctx context.Context, o *order.Order) error
	FrequentProducts(ctx context.Context, userID string, limit int) ([]suggestion.Suggestion, error)
	CoOrderedProducts(ctx context.Context, productID string, limit int) ([]suggestion.Suggestion, error)
}
