package heaan

import (
	"errors"
)

var (
	// ErrPrecisionExceeded is returned when a requested logp/logq exceeds
	// the available modulus, or when an operation would go below the
	// bottom of the modulus chain.
	ErrPrecisionExceeded = errors.New("precision exceeded")

	// ErrLevelMismatch is returned when operands are at different moduli.
	ErrLevelMismatch = errors.New("level mismatch")

	// ErrScaleMismatch is returned when additive operands have different scales.
	ErrScaleMismatch = errors.New("scale mismatch")

	// ErrMissingKey is returned when an evaluation key or a bootstrapping
	// context was never generated.
	ErrMissingKey = errors.New("missing key")

	// ErrDomainRange is returned when a slot count or a number of values
	// is outside of what the ring can hold.
	ErrDomainRange = errors.New("domain range")
)
