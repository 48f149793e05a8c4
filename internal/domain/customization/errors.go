package customization

import "errors"

var (
	ErrNoDecision           = errors.New("choose to customize the dish or keep the original recipe")
	ErrIncompleteSelections = errors.New("pick an option for every ingredient")
	ErrNoChangeMade         = errors.New("change at least one ingredient or keep the original recipe")
	ErrUnknownFood          = errors.New("selected option is not available for this ingredient")
)
