package payment

import (
	"errors"
	"fmt"
)

// Callers branch on the two categories with errors.Is; adapter failures are
// returned as *acquirer.Error and belong to neither.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

var (
	ErrInvalidAmount   = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrInvalidPartner  = fmt.Errorf("%w: partner not found", ErrValidation)
	ErrPartnerInactive = fmt.Errorf("%w: partner is inactive", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown payment status", ErrValidation)
	ErrInvalidCursor   = fmt.Errorf("%w: malformed cursor", ErrValidation)

	ErrNoFeePolicy      = fmt.Errorf("%w: no effective fee policy", ErrConfiguration)
	ErrInvalidFeePolicy = fmt.Errorf("%w: fee policy out of range", ErrConfiguration)
	ErrNoAdapter        = fmt.Errorf("%w: no acquirer adapter supports partner", ErrConfiguration)
)
