package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/availability"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	domain "meal_storefront/internal/domain/order"
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

type PaymentMethods interface {
	IsEnabled(ctx context.Context, key string) (bool, error)
}

type CartClearer interface {
	ClearSession(ctx context.Context, sessionID string) error
}

// Publisher announces placed orders downstream.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o *domain.Order) error
}

type Options struct {
	// RecheckOnSubmit re-runs availability right before the order is written.
	RecheckOnSubmit bool
	// FollowUpTimeout bounds the cart clear and the publish after an order
	// is committed. Zero means defaultFollowUpTimeout.
	FollowUpTimeout time.Duration
}

const defaultFollowUpTimeout = 5 * time.Second

type Service struct {
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	checker   AvailabilityChecker
	pricing   PriceCalculator
	payments  PaymentMethods
	carts     CartClearer
	publisher Publisher
	opts      Options
	logger    logger.Logger
}

func NewService(
	orders repository.OrderRepository,
	addresses repository.AddressRepository,
	checker AvailabilityChecker,
	pricing PriceCalculator,
	payments PaymentMethods,
	carts CartClearer,
	publisher Publisher,
	opts Options,
	log logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		addresses: addresses,
		checker:   checker,
		pricing:   pricing,
		payments:  payments,
		carts:     carts,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

type PrepareCommand struct {
	UserID        string          `json:"userId"`
	AddressID     string          `json:"addressId"`
	PaymentMethod string          `json:"paymentMethod"`
	SessionID     string          `json:"sessionId"`
	Items         []cart.LineItem `json:"items"`
	Source        domain.Source   `json:"source"`
}

// Preparation is the outcome of reconciling lines before checkout. Draft is
// set only when at least one line is available and the fee is resolved; it
// covers the available lines alone.
type Preparation struct {
	Draft       *domain.Draft              `json:"draft"`
	Available   []availability.Available   `json:"available"`
	Unavailable []availability.Unavailable `json:"unavailable"`
	Pricing     pricing.Breakdown          `json:"pricing"`
}

// Prepare checks availability, resolves the address and delivery fee and
// prices the available subset. It never mutates the cart. A resolution
// error is returned together with the preparation so the partition can
// still be shown.
func (s *Service) Prepare(ctx context.Context, cmd PrepareCommand) (*Preparation, error) {
	log := s.logger.WithContext(ctx)

	items := orderable(cmd.Items)
	if len(items) == 0 {
		return nil, apperr.Input(domain.ErrNoItems, "Your cart is empty")
	}
	if cmd.UserID == "" || cmd.AddressID == "" {
		return nil, apperr.Input(domain.ErrMissingField, "Choose a delivery address")
	}
	if cmd.PaymentMethod != "" {
		if err := s.ensurePaymentMethod(ctx, cmd.PaymentMethod); err != nil {
			return nil, err
		}
	}

	address, err := s.resolveAddress(ctx, cmd.UserID, cmd.AddressID)
	if err != nil {
		return nil, err
	}

	partition := s.checker.Check(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	available := partition.Items()

	prep := &Preparation{
		Available:   partition.Available,
		Unavailable: partition.Unavailable,
	}

	breakdown, err := s.pricing.Price(ctx, available, *address)
	prep.Pricing = breakdown
	if err != nil {
		return prep, err
	}
	if len(available) == 0 {
		log.Info("nothing left to order", logger.Int("unavailable", len(partition.Unavailable)))
		return prep, nil
	}

	source := cmd.Source
	if source == "" {
		source = domain.SourceCart
	}
	prep.Draft = &domain.Draft{
		UserID:        cmd.UserID,
		AddressID:     address.ID,
		PaymentMethod: cmd.PaymentMethod,
		Items:         available,
		Pricing:       breakdown,
		Source:        source,
		SessionID:     cmd.SessionID,
	}
	return prep, nil
}

// Submit writes the draft as one order. Either the header and all its rows
// are persisted or nothing is.
func (s *Service) Submit(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	log := s.logger.WithContext(ctx).WithFields(
		logger.String("user_id", draft.UserID),
		logger.String("source", string(draft.Source)),
	)

	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	if err := s.ensurePaymentMethod(ctx, draft.PaymentMethod); err != nil {
		return nil, err
	}
	if _, err := s.resolveAddress(ctx, draft.UserID, draft.AddressID); err != nil {
		return nil, err
	}
	if !draft.Pricing.IsFinal() {
		return nil, apperr.Resolution(domain.ErrTotalNotFinal,
			"The delivery fee is not calculated yet, please try again")
	}
	if !pricing.NewBreakdown(draft.Items, draft.Pricing.DeliveryFee).Equal(draft.Pricing) {
		return nil, apperr.Input(domain.ErrPricingMismatch, "Your order changed, please review it again")
	}

	if s.opts.RecheckOnSubmit {
		partition := s.checker.Check(ctx, draft.Items)
		if !partition.AllAvailable() {
			log.Warn("items became unavailable before submission",
				logger.Int("unavailable", len(partition.Unavailable)))
			return nil, apperr.Availability(&UnavailableItemsError{Items: partition.Unavailable},
				"Some items are no longer available, review your order")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o, err := domain.NewOrder(uuid.NewString(), draft.UserID, draft.AddressID, draft.PaymentMethod, draft.Items, draft.Pricing)
	if err != nil {
		return nil, apperr.Input(err, "Your order is incomplete, please review it")
	}

	if err := s.orders.Create(ctx, o); err != nil {
		if errors.Is(err, domain.ErrStockConflict) {
			log.Warn("stock changed during submission", logger.Error(err))
			return nil, apperr.Availability(err, "Some items sold out while you were checking out, review your order")
		}
		log.Error("order write failed", logger.Error(err))
		return nil, apperr.Submission(fmt.Errorf("create order: %w", err),
			"We could not place your order, please try again")
	}
	log.Info("order placed",
		logger.String("order_id", o.ID),
		logger.String("total", o.Total.StringFixed(2)),
		logger.Int("items", len(o.Items)),
	)

	// The order is committed from here on; follow-up failures are logged only.
	s.followUp(ctx, draft, o)

	return o, nil
}

// followUp clears the cart and announces the order. It runs detached from
// the caller's cancellation: a client that disconnects after the commit
// must not leave the cart populated or the event unsent.
func (s *Service) followUp(ctx context.Context, draft domain.Draft, o *domain.Order) {
	log := s.logger.WithContext(ctx)
	timeout := s.opts.FollowUpTimeout
	if timeout <= 0 {
		timeout = defaultFollowUpTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if draft.Source == domain.SourceCart && draft.SessionID != "" {
		if err := s.carts.ClearSession(ctx, draft.SessionID); err != nil {
			log.Error("clear cart after order failed", logger.String("order_id", o.ID), logger.Error(err))
		}
	}
	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		log.Error("publish order placed failed", logger.String("order_id", o.ID), logger.Error(err))
	}
}

func (s *Service) ensurePaymentMethod(ctx context.Context, key string) error {
	ok, err := s.payments.IsEnabled(ctx, key)
	if err != nil {
		return apperr.Submission(err, "We could not load payment methods, please try again")
	}
	if !ok {
		return apperr.Input(domain.ErrPaymentMethodDisabled, "Choose one of the available payment methods")
	}
	return nil
}

func (s *Service) resolveAddress(ctx context.Context, userID, addressID string) (*catalog.Address, error) {
	address, err := s.addresses.FindAddress(ctx, userID, addressID)
	if errors.Is(err, catalog.ErrAddressNotFound) {
		return nil, apperr.Input(err, "Choose a valid delivery address")
	}
	if err != nil {
		return nil, apperr.Resolution(fmt.Errorf("find address: %w", err),
			"We could not load your address, please try again")
	}
	return address, nil
}

func validateDraft(draft domain.Draft) error {
	if draft.UserID == "" || draft.AddressID == "" {
		return apperr.Input(domain.ErrMissingField, "Choose a delivery address")
	}
	if draft.PaymentMethod == "" {
		return apperr.Input(domain.ErrMissingField, "Choose a payment method")
	}
	if len(draft.Items) == 0 {
		return apperr.Input(domain.ErrNoItems, "Your order has no items")
	}
	for _, it := range draft.Items {
		if it.Quantity < 1 {
			return apperr.Input(domain.ErrInvalidQuantity, "Every item needs a quantity of at least 1")
		}
	}
	return nil
}

// orderable drops lines left at quantity zero pending removal.
func orderable(items []cart.LineItem) []cart.LineItem {
	out := make([]cart.LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}
