package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrAreaNotFound    = errors.New("delivery area not found")
	ErrAddressNotFound = errors.New("address not found")
)
