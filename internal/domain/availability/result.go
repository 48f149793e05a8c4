package availability

import (
	"fmt"

	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
)

// Reason tells why a line cannot be ordered.
type Reason string

const (
	ReasonNotFound          Reason = "NOT_FOUND"
	ReasonInactive          Reason = "INACTIVE"
	ReasonInsufficientStock Reason = "INSUFFICIENT_STOCK"
	ReasonCheckFailed       Reason = "CHECK_FAILED"
)

// Available is a line that passed every check, with the product state seen
// during the check.
type Available struct {
	Item    cart.LineItem   `json:"item"`
	Product catalog.Product `json:"product"`
}

// Unavailable is a line that failed a check. ObservedStock is only meaningful
// for ReasonInsufficientStock.
type Unavailable struct {
	Item          cart.LineItem `json:"item"`
	Reason        Reason        `json:"reason"`
	Required      int           `json:"required,omitempty"`
	ObservedStock int           `json:"observedStock,omitempty"`
	Message       string        `json:"message"`
}

// Partition splits checked lines; together the two slices hold every input line.
type Partition struct {
	Available   []Available   `json:"available"`
	Unavailable []Unavailable `json:"unavailable"`
}

// AllAvailable reports whether no line failed.
func (p Partition) AllAvailable() bool {
	return len(p.Unavailable) == 0
}

// Items returns the available lines.
func (p Partition) Items() []cart.LineItem {
	items := make([]cart.LineItem, 0, len(p.Available))
	for _, a := range p.Available {
		items = append(items, a.Item)
	}
	return items
}

func NotFound(item cart.LineItem) Unavailable {
	return Unavailable{
		Item:    item,
		Reason:  ReasonNotFound,
		Message: fmt.Sprintf("%s is no longer on the menu", displayName(item)),
	}
}

func Inactive(item cart.LineItem) Unavailable {
	return Unavailable{
		Item:    item,
		Reason:  ReasonInactive,
		Message: fmt.Sprintf("%s is currently unavailable", displayName(item)),
	}
}

// InsufficientStock reports a line whose product cannot cover required
// units. required is the total asked for the product across the cart, which
// can exceed the line's own quantity.
func InsufficientStock(item cart.LineItem, required, available int) Unavailable {
	return Unavailable{
		Item:          item,
		Reason:        ReasonInsufficientStock,
		Required:      required,
		ObservedStock: available,
		Message: fmt.Sprintf("Only %d of %s left in stock (you asked for %d)",
			available, displayName(item), required),
	}
}

func CheckFailed(item cart.LineItem) Unavailable {
	return Unavailable{
		Item:    item,
		Reason:  ReasonCheckFailed,
		Message: fmt.Sprintf("We could not confirm availability of %s, please try again", displayName(item)),
	}
}

func displayName(item cart.LineItem) string {
	if item.Title != "" {
		return item.Title
	}
	return "product " + item.ProductID
}
