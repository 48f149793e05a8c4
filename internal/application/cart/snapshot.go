package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	domain "meal_storefront/internal/domain/cart"
)

// StorageKey is the key the cart snapshot lives under in its scoped store.
const StorageKey = "cart"

// persistedLine is the on-disk shape of a line. Old clients wrote the
// product id as "id", "price"/"image" instead of "unitPrice"/"imageRef", and
// no identityKey.
type persistedLine struct {
	ProductID   string           `json:"productId,omitempty"`
	LegacyID    string           `json:"id,omitempty"`
	IdentityKey string           `json:"identityKey,omitempty"`
	Title       string           `json:"title"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	LegacyPrice *decimal.Decimal `json:"price,omitempty"`
	ImageRef    string           `json:"imageRef,omitempty"`
	LegacyImage string           `json:"image,omitempty"`
	Quantity    int              `json:"quantity"`
	Notes       string           `json:"notes,omitempty"`
}

func encodeSnapshot(items []domain.LineItem) ([]byte, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

// decodeSnapshot parses a stored snapshot. migrated is true when at least
// one record needed the legacy backfill.
func decodeSnapshot(data []byte) (items []domain.LineItem, migrated bool, err error) {
	var records []persistedLine
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decode cart: %w", err)
	}

	items = make([]domain.LineItem, 0, len(records))
	for _, rec := range records {
		item, legacy := rec.toLineItem()
		if item.ProductID == "" {
			// unusable record, nothing to key it by
			migrated = true
			continue
		}
		migrated = migrated || legacy
		items = append(items, item)
	}
	return items, migrated, nil
}

func (r persistedLine) toLineItem() (domain.LineItem, bool) {
	legacy := false

	productID := r.ProductID
	if productID == "" {
		productID = r.LegacyID
		legacy = true
	}

	price := decimal.Zero
	switch {
	case r.UnitPrice != nil:
		price = *r.UnitPrice
	case r.LegacyPrice != nil:
		price = *r.LegacyPrice
		legacy = true
	}

	image := r.ImageRef
	if image == "" && r.LegacyImage != "" {
		image = r.LegacyImage
		legacy = true
	}

	key := r.IdentityKey
	if key == "" {
		key = domain.IdentityKey(productID, r.Notes)
		legacy = true
	}

	return domain.LineItem{
		ProductID:   productID,
		IdentityKey: key,
		Title:       r.Title,
		UnitPrice:   price,
		ImageRef:    image,
		Quantity:    r.Quantity,
		Notes:       r.Notes,
	}, legacy
}
