package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	domain "meal_storefront/internal/domain/pricing"
	"meal_storefront/internal/domain/repository"
	"meal_storefront/pkg/logger"
)

// Calculator prices lines and resolves delivery fees against the delivery
// area table.
type Calculator struct {
	areas       repository.DeliveryAreaRepository
	fallbackFee decimal.Decimal
	logger      logger.Logger
}

func NewCalculator(areas repository.DeliveryAreaRepository, fallbackFee decimal.Decimal, log logger.Logger) *Calculator {
	return &Calculator{
		areas:       areas,
		fallbackFee: fallbackFee,
		logger:      log,
	}
}

func (c *Calculator) ComputeSubtotal(items []cart.LineItem) decimal.Decimal {
	return domain.Subtotal(items)
}

func (c *Calculator) ComputeTotal(subtotal decimal.Decimal, fee domain.DeliveryFee) domain.Total {
	return domain.ComputeTotal(subtotal, fee)
}

// ResolveDeliveryFee looks the fee up by (city, neighborhood). Unknown areas
// get the fallback fee. An address that cannot be located, or a failed
// lookup, leaves the fee unresolved and returns a resolution error.
func (c *Calculator) ResolveDeliveryFee(ctx context.Context, address catalog.Address) (domain.DeliveryFee, error) {
	if !address.Locatable() {
		return domain.Unresolved(), apperr.Resolution(domain.ErrFeeUnresolved,
			"Add the city and neighborhood to your address to see the delivery fee")
	}

	area, err := c.areas.FindArea(ctx, address.City, address.Neighborhood)
	switch {
	case errors.Is(err, catalog.ErrAreaNotFound):
		c.logger.WithContext(ctx).Info("no delivery area matched, using fallback fee",
			logger.String("city", address.City),
			logger.String("neighborhood", address.Neighborhood),
		)
		return domain.Resolved(c.fallbackFee), nil
	case err != nil:
		c.logger.WithContext(ctx).Warn("delivery fee lookup failed", logger.Error(err))
		return domain.Unresolved(), apperr.Resolution(
			fmt.Errorf("%w: %v", domain.ErrFeeUnresolved, err),
			"We could not calculate the delivery fee, please try again")
	}
	if area.Price.IsNegative() {
		return domain.Unresolved(), apperr.Resolution(domain.ErrFeeUnresolved,
			"We could not calculate the delivery fee, please try again")
	}
	return domain.Resolved(area.Price), nil
}

// Price resolves the fee for address and builds the breakdown for items.
// On a resolution error the breakdown is still returned, marked not final.
func (c *Calculator) Price(ctx context.Context, items []cart.LineItem, address catalog.Address) (domain.Breakdown, error) {
	fee, err := c.ResolveDeliveryFee(ctx, address)
	return domain.NewBreakdown(items, fee), err
}
