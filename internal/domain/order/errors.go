package order

import "errors"

var (
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidPrice          = errors.New("price cannot be negative")
	ErrMissingField          = errors.New("required field is missing")
	ErrNoItems               = errors.New("order has no items")
	ErrTotalNotFinal         = errors.New("order total is not final")
	ErrPricingMismatch       = errors.New("order pricing does not match its items")
	ErrPaymentMethodDisabled = errors.New("payment method is not enabled")
	ErrStockConflict         = errors.New("stock changed before the order was written")
	ErrNotFound              = errors.New("order not found")
	ErrNotOwner              = errors.New("order belongs to another user")
)
