package repository

import (
	"context"

	"meal_storefront/internal/domain/order"
)

type OrderRepository interface {
	// Create writes the header, its item rows and the stock decrement as one
	// unit. Nothing is left behind when it returns an error.
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id string) (*order.Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*order.Order, error)
}
