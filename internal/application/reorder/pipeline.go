package reorder

import (
	"context"
	"errors"
	"fmt"

	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/availability"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/pricing"
	"meal_storefront/internal/domain/repository"
	"meal_storefront/pkg/logger"
)

type AvailabilityChecker interface {
	Check(ctx context.Context, items []cart.LineItem) availability.Partition
}

type PriceCalculator interface {
	Price(ctx context.Context, items []cart.LineItem, address catalog.Address) (pricing.Breakdown, error)
}

// Pipeline rebuilds a historical order into a fresh, priced draft.
type Pipeline struct {
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	checker   AvailabilityChecker
	pricing   PriceCalculator
	logger    logger.Logger
}

func NewPipeline(
	orders repository.OrderRepository,
	addresses repository.AddressRepository,
	checker AvailabilityChecker,
	pricing PriceCalculator,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		orders:    orders,
		addresses: addresses,
		checker:   checker,
		pricing:   pricing,
		logger:    log,
	}
}

// Result is a reorder preview. Available lines carry current product titles
// and prices; PriceChanges lists lines whose unit price moved since the
// historical order and Delta compares the new pricing with what was charged.
type Result struct {
	OrderID      string                     `json:"orderId"`
	UserID       string                     `json:"userId"`
	AddressID    string                     `json:"addressId"`
	Available    []cart.LineItem            `json:"available"`
	Unavailable  []availability.Unavailable `json:"unavailable"`
	Pricing      pricing.Breakdown          `json:"pricing"`
	PriceChanges []pricing.PriceChange      `json:"priceChanges"`
	Delta        pricing.Delta              `json:"delta"`
}

// Rebuild loads orderID, checks it belongs to userID and rebuilds it for
// delivery to addressID. An empty addressID reuses the historical address.
func (p *Pipeline) Rebuild(ctx context.Context, userID, orderID, addressID string) (*Result, error) {
	historical, err := p.orders.FindByID(ctx, orderID)
	if errors.Is(err, order.ErrNotFound) {
		return nil, apperr.Input(err, "We could not find that order")
	}
	if err != nil {
		return nil, apperr.Resolution(fmt.Errorf("find order: %w", err), "We could not load that order, please try again")
	}
	if historical.UserID != userID {
		return nil, apperr.Input(order.ErrNotOwner, "We could not find that order")
	}

	if addressID == "" {
		addressID = historical.AddressID
	}
	address, err := p.addresses.FindAddress(ctx, userID, addressID)
	if errors.Is(err, catalog.ErrAddressNotFound) {
		return nil, apperr.Input(err, "Choose a valid delivery address")
	}
	if err != nil {
		return nil, apperr.Resolution(fmt.Errorf("find address: %w", err), "We could not load your address, please try again")
	}

	return p.RebuildFromOrder(ctx, historical, *address)
}

// RebuildFromOrder re-checks every historical line and re-prices the
// survivors at current prices. A fee resolution error is returned with the
// result so the partition can still be shown.
func (p *Pipeline) RebuildFromOrder(ctx context.Context, historical *order.Order, address catalog.Address) (*Result, error) {
	log := p.logger.WithContext(ctx).WithFields(logger.String("order_id", historical.ID))

	lines := historical.LineItems()
	partition := p.checker.Check(ctx, lines)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current := make([]cart.LineItem, 0, len(partition.Available))
	for _, a := range partition.Available {
		current = append(current, refresh(a))
	}

	breakdown, err := p.pricing.Price(ctx, current, address)
	res := &Result{
		OrderID:      historical.ID,
		UserID:       historical.UserID,
		AddressID:    address.ID,
		Available:    current,
		Unavailable:  partition.Unavailable,
		Pricing:      breakdown,
		PriceChanges: pricing.PriceChanges(lines, current),
		Delta:        pricing.Compare(historical.Breakdown(), breakdown),
	}

	log.Info("order rebuilt",
		logger.Int("available", len(current)),
		logger.Int("unavailable", len(partition.Unavailable)),
		logger.Int("price_changes", len(res.PriceChanges)),
	)
	return res, err
}

// History lists the newest orders of userID, the starting point of a reorder.
func (p *Pipeline) History(ctx context.Context, userID string, limit int) ([]*order.Order, error) {
	orders, err := p.orders.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Resolution(fmt.Errorf("list orders: %w", err), "We could not load your orders, please try again")
	}
	return orders, nil
}

// Draft turns the available subset of res into an order draft.
func Draft(res *Result, paymentMethod string) (*order.Draft, error) {
	if len(res.Available) == 0 {
		return nil, apperr.Availability(order.ErrNoItems, "None of the items from that order are available right now")
	}
	if !res.Pricing.IsFinal() {
		return nil, apperr.Resolution(order.ErrTotalNotFinal, "The delivery fee is not calculated yet, please try again")
	}
	return &order.Draft{
		UserID:        res.UserID,
		AddressID:     res.AddressID,
		PaymentMethod: paymentMethod,
		Items:         res.Available,
		Pricing:       res.Pricing,
		Source:        order.SourceReorder,
	}, nil
}

// refresh applies the product state observed during the check.
func refresh(a availability.Available) cart.LineItem {
	item := a.Item
	item.UnitPrice = a.Product.Price
	if a.Product.Name != "" {
		item.Title = a.Product.Name
	}
	if a.Product.ImageURL != "" {
		item.ImageRef = a.Product.ImageURL
	}
	return item
}
