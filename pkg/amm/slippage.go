package amm

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

var (
	bpsScale     = uint256.NewInt(10_000)
	maxInt32     = uint256.NewInt(math.MaxInt32)
	minInt32Size = uint256.NewInt(1 << 31)
)

// ValidateSwap checks a swap of dx from token i to token j in a pool of n
// tokens.
func ValidateSwap(n, i, j int, dx u128.Uint128) error {
	if i == j {
		return fmt.Errorf("%w: input and output are both %d", ErrInvalidIndex, i)
	}
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("%w: (%d, %d) with %d tokens", ErrInvalidIndex, i, j, n)
	}
	if dx.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// slippageBps compares the actual output of a trade with the expected one:
//
//	round((expected - actual) * 10000 / expected)
//
// with halves rounded away from zero and the result clamped to int32.
// Positive means worse than expected. The product is taken in 256 bits so it
// cannot overflow for any pair of 128-bit amounts.
func slippageBps(expected, actual u128.Uint128) int32 {
	if expected.IsZero() {
		return 0
	}
	worse := !actual.Gt(expected)

	num := expected.AbsDiff(actual).Uint256()
	num.Mul(num, bpsScale)
	den := expected.Uint256()
	half := new(uint256.Int).Rsh(den, 1)
	q := num.Div(num.Add(num, half), den)

	if worse {
		if q.Gt(maxInt32) {
			return math.MaxInt32
		}
		return int32(q.Uint64())
	}
	if !q.Lt(minInt32Size) {
		return math.MinInt32
	}
	return -int32(q.Uint64())
}
