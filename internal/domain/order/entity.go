package order

import (
	"time"

	"github.com/shopspring/decimal"

	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/pricing"
)

// Order is a persisted order header with its item rows.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	AddressID     string          `json:"address_id"`
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"status"`
	Items         []Item          `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Item is one order row. Price is the unit price charged.
type Item struct {
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Notes     string          `json:"notes,omitempty"`
}

// NewOrder builds a pending order from priced lines. The breakdown must be
// final and computed from exactly these lines.
func NewOrder(id, userID, addressID, paymentMethod string, lines []cart.LineItem, breakdown pricing.Breakdown) (*Order, error) {
	if id == "" || userID == "" || addressID == "" || paymentMethod == "" {
		return nil, ErrMissingField
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}
	fee, ok := breakdown.DeliveryFee.Amount()
	if !ok || !breakdown.IsFinal() {
		return nil, ErrTotalNotFinal
	}
	if !pricing.NewBreakdown(lines, breakdown.DeliveryFee).Equal(breakdown) {
		return nil, ErrPricingMismatch
	}

	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, ErrMissingField
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitPrice.IsNegative() {
			return nil, ErrInvalidPrice
		}
		items = append(items, Item{
			OrderID:   id,
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			Notes:     line.Notes,
		})
	}

	return &Order{
		ID:            id,
		UserID:        userID,
		AddressID:     addressID,
		PaymentMethod: paymentMethod,
		Subtotal:      breakdown.Subtotal,
		DeliveryFee:   fee,
		Total:         breakdown.Total.Amount,
		Status:        StatusPending,
		Items:         items,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Breakdown is the pricing the order was charged at.
func (o *Order) Breakdown() pricing.Breakdown {
	return pricing.Breakdown{
		Subtotal:    o.Subtotal,
		DeliveryFee: pricing.Resolved(o.DeliveryFee),
		Total:       pricing.Total{Amount: o.Total, Final: true},
	}
}

// LineItems turns the order rows back into cart lines at the prices charged.
func (o *Order) LineItems() []cart.LineItem {
	lines := make([]cart.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, cart.LineItem{
			ProductID:   it.ProductID,
			IdentityKey: cart.IdentityKey(it.ProductID, it.Notes),
			Title:       it.Title,
			UnitPrice:   it.Price,
			Quantity:    it.Quantity,
			Notes:       it.Notes,
		})
	}
	return lines
}

// Draft is an order assembled from validated lines, not yet written.
type Draft struct {
	UserID        string            `json:"userId"`
	AddressID     string            `json:"addressId"`
	PaymentMethod string            `json:"paymentMethod"`
	Items         []cart.LineItem   `json:"items"`
	Pricing       pricing.Breakdown `json:"pricing"`
	Source        Source            `json:"source"`
	// SessionID identifies the cart to clear when Source is SourceCart.
	SessionID string `json:"sessionId,omitempty"`
}
