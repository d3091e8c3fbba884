package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failure")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTransaction       = errors.New("transaction failure")

	ErrNoDefaultAddress = fmt.Errorf("%w: customer has no default address", ErrValidation)
	ErrMixedMerchants   = fmt.Errorf("%w: order items belong to more than one merchant", ErrValidation)
)
