package amm

import "github.com/nulln0ne/amm-estimator/pkg/u128"

var (
	two = u128.From64(2)

	// bpsDenominator is 100% in basis points.
	bpsDenominator = u128.From64(10_000)
)

// calc chains checked u128 operations and keeps the first failure. Once an
// operation fails every later one is a no-op returning zero, so a formula can
// be written out in full and checked once at the end.
type calc struct {
	err error
}

func (c *calc) apply(op func(u128.Uint128) (u128.Uint128, error), y u128.Uint128) u128.Uint128 {
	if c.err != nil {
		return u128.Zero
	}
	z, err := op(y)
	if err != nil {
		c.err = mathError(err)
		return u128.Zero
	}
	return z
}

func (c *calc) add(x, y u128.Uint128) u128.Uint128 { return c.apply(x.Add, y) }
func (c *calc) sub(x, y u128.Uint128) u128.Uint128 { return c.apply(x.Sub, y) }
func (c *calc) mul(x, y u128.Uint128) u128.Uint128 { return c.apply(x.Mul, y) }
func (c *calc) div(x, y u128.Uint128) u128.Uint128 { return c.apply(x.Div, y) }

// applyFee returns dy*(10000-feeBps)/10000. A fee above 10000 bps underflows
// and is reported as ErrMathOverflow.
func applyFee(dy u128.Uint128, feeBps uint16) (u128.Uint128, error) {
	var c calc
	keep := c.sub(bpsDenominator, u128.From64(uint64(feeBps)))
	net := c.div(c.mul(dy, keep), bpsDenominator)
	return net, c.err
}

// converged reports whether two successive solver iterates are within one
// unit of each other.
func converged(prev, next u128.Uint128) bool {
	return next.AbsDiff(prev).Cmp(u128.One) <= 0
}
