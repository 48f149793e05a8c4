package repository

import (
	"context"

	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/customization"
)

// ProductRepository returns catalog.ErrProductNotFound for unknown ids.
type ProductRepository interface {
	FindProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// DeliveryAreaRepository returns catalog.ErrAreaNotFound when no area matches.
type DeliveryAreaRepository interface {
	FindArea(ctx context.Context, city, neighborhood string) (*catalog.DeliveryArea, error)
}

// AddressRepository returns catalog.ErrAddressNotFound for unknown or foreign addresses.
type AddressRepository interface {
	FindAddress(ctx context.Context, userID, addressID string) (*catalog.Address, error)
}

type PaymentMethodRepository interface {
	ListPaymentMethods(ctx context.Context) (map[string]catalog.PaymentMethod, error)
}

type SubstitutionRepository interface {
	ListGroups(ctx context.Context, productID string) ([]customization.SubstitutionGroup, error)
}
