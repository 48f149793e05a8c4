package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown when a product has no usable image.
const PlaceholderImage = "/static/img/product-placeholder.png"

// LineItem is one cart or order row.
type LineItem struct {
	ProductID   string          `json:"productId"`
	IdentityKey string          `json:"identityKey"`
	Title       string          `json:"title"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ImageRef    string          `json:"imageRef,omitempty"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
}

// NewLineItem builds a line with quantity zero; the store sets the quantity
// when the line is added.
func NewLineItem(productID, title string, unitPrice decimal.Decimal, imageRef, notes string) (LineItem, error) {
	if strings.TrimSpace(productID) == "" {
		return LineItem{}, ErrMissingProduct
	}
	if unitPrice.IsNegative() {
		return LineItem{}, ErrInvalidPrice
	}
	return LineItem{
		ProductID:   productID,
		IdentityKey: IdentityKey(productID, notes),
		Title:       title,
		UnitPrice:   unitPrice,
		ImageRef:    imageRef,
		Notes:       notes,
	}, nil
}

// LineTotal is unit price times quantity, unrounded.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Image returns the image reference or the placeholder when it is missing.
func (l LineItem) Image() string {
	if strings.TrimSpace(l.ImageRef) == "" {
		return PlaceholderImage
	}
	return l.ImageRef
}

// WithQuantity returns a copy of l with the given quantity.
func (l LineItem) WithQuantity(quantity int) LineItem {
	l.Quantity = quantity
	return l
}

// Total sums LineTotal over items.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
