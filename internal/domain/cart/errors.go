package cart

import "errors"

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least one")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrInvalidPrice     = errors.New("unit price cannot be negative")
	ErrMissingProduct   = errors.New("product id is required")
	ErrItemNotInCart    = errors.New("item not in cart")
)
