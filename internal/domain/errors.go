package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Handlers write these verbatim into HTTP responses, so changing one changes
// the API contract.
const (
	ErrMsgZombieNotFound     = "Zombie not found"
	ErrMsgItemNotFound       = "Item not found"
	ErrMsgZombieItemNotFound = "Zombie item not found"
	ErrMsgRateNotFound       = "Currency rate not found"
	ErrMsgTooManyItems       = "Zombie can not have more than 5 items"
)

// Common domain errors.
// Wrap with fmt.Errorf("%w: ...", domain.ErrXxx) for additional context.
var (
	ErrZombieNotFound     = errors.New(ErrMsgZombieNotFound)
	ErrItemNotFound       = errors.New(ErrMsgItemNotFound)
	ErrZombieItemNotFound = errors.New(ErrMsgZombieItemNotFound)
	ErrRateNotFound       = errors.New(ErrMsgRateNotFound)
	ErrTooManyItems       = errors.New(ErrMsgTooManyItems)
)
