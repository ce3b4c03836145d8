package amm

import (
	"errors"
	"fmt"
)

// Failure kinds shared by every pool model. Callers branch on them with
// errors.Is; returned errors may wrap one of these with extra context.
var (
	// ErrInvalidIndex covers out-of-range or equal token indices and a
	// degenerate amplification (A*n^n <= 1).
	ErrInvalidIndex = errors.New("invalid token index")
	// ErrZeroAmount is returned for a zero input amount.
	ErrZeroAmount = errors.New("zero input amount")
	// ErrMathOverflow covers every checked-arithmetic failure: overflow,
	// underflow, division by zero and a zero solver denominator.
	ErrMathOverflow = errors.New("math overflow")
	// ErrInsufficientLiquidity is returned when a reserve is zero or a trade
	// would take more than the pool holds.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrConvergenceFailed is returned when the invariant solver ends at zero.
	ErrConvergenceFailed = errors.New("invariant did not converge")
	// ErrPoolSizeTooSmall is returned when a pool has fewer than two tokens.
	ErrPoolSizeTooSmall = errors.New("pool needs at least two tokens")
	// ErrUnknownModel is returned by New for an unregistered model name.
	ErrUnknownModel = errors.New("unknown pool model")
)

func mathError(err error) error {
	return fmt.Errorf("%w: %w", ErrMathOverflow, err)
}
