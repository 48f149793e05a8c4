package pricing

import "errors"

var (
	ErrFeeUnresolved = errors.New("delivery fee is not resolved")
	ErrTotalNotFinal = errors.New("order total is not final")
)
