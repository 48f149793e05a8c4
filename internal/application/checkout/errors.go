package checkout

import (
	"fmt"

	"meal_storefront/internal/domain/availability"
)

// UnavailableItemsError is returned by Submit when the final re-check finds
// lines that can no longer be ordered. Items carries the reason per line.
type UnavailableItemsError struct {
	Items []availability.Unavailable
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf("%d item(s) became unavailable", len(e.Items))
}
