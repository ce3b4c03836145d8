package amm

import (
	"fmt"
	"slices"

	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

// maxIterations bounds both Newton solves.
const maxIterations = 255

// StableSwap prices swaps on the StableSwap curve
//
//	A*n^n*S + D = A*D*n^n + D^(n+1) / (n^n * P)
//
// where S and P are the sum and product of the reserves and D is the
// invariant. Larger amplification keeps the curve closer to a 1:1 exchange
// around balanced reserves. The invariant is not cached: every query solves
// it again from the reserves.
type StableSwap struct {
	reserves      []u128.Uint128
	amplification u128.Uint128
	feeBps        uint16
}

// NewStableSwap returns a pool over a copy of reserves.
func NewStableSwap(reserves []u128.Uint128, amplification u128.Uint128, feeBps uint16) (*StableSwap, error) {
	if len(reserves) < 2 {
		return nil, ErrPoolSizeTooSmall
	}
	return &StableSwap{
		reserves:      slices.Clone(reserves),
		amplification: amplification,
		feeBps:        feeBps,
	}, nil
}

func (s *StableSwap) Model() Model { return ModelStableSwap }

// Reserves returns a copy of the pool balances.
func (s *StableSwap) Reserves() []u128.Uint128 { return slices.Clone(s.reserves) }

func (s *StableSwap) FeeBps() uint16 { return s.feeBps }

func (s *StableSwap) Amplification() u128.Uint128 { return s.amplification }

// ann returns A*n^n and n.
func (s *StableSwap) ann() (ann, n u128.Uint128, err error) {
	n = u128.From64(uint64(len(s.reserves)))
	nn, err := n.Pow(uint(len(s.reserves)))
	if err != nil {
		return u128.Zero, u128.Zero, mathError(err)
	}
	ann, err = s.amplification.Mul(nn)
	if err != nil {
		return u128.Zero, u128.Zero, mathError(err)
	}
	return ann, n, nil
}

// Invariant solves for D with Newton's method, starting from the sum of the
// reserves. It stops once two iterates differ by at most one, or after
// maxIterations steps.
func (s *StableSwap) Invariant() (u128.Uint128, error) {
	ann, n, err := s.ann()
	if err != nil {
		return u128.Zero, err
	}

	var c calc
	sum := u128.Zero
	for _, r := range s.reserves {
		sum = c.add(sum, r)
	}
	if c.err != nil {
		return u128.Zero, c.err
	}
	for k, r := range s.reserves {
		if r.IsZero() {
			return u128.Zero, fmt.Errorf("%w: reserve %d is zero", ErrInsufficientLiquidity, k)
		}
	}

	d := sum
	for range maxIterations {
		next, err := s.invariantStep(d, sum, ann, n)
		if err != nil {
			return u128.Zero, err
		}
		done := converged(d, next)
		d = next
		if done {
			break
		}
	}
	if d.IsZero() {
		return u128.Zero, ErrConvergenceFailed
	}
	return d, nil
}

// invariantStep performs one Newton update of D:
//
//	D_P = D^(n+1) / (n^n * prod(reserves))
//	D'  = (Ann*S + n*D_P) * D / ((Ann-1)*D + (n+1)*D_P)
func (s *StableSwap) invariantStep(d, sum, ann, n u128.Uint128) (u128.Uint128, error) {
	var c calc
	dp := d
	for _, r := range s.reserves {
		dp = c.mul(dp, d)
		dp = c.div(dp, r)
		dp = c.div(dp, n)
	}
	numerator := c.mul(c.add(c.mul(ann, sum), c.mul(n, dp)), d)
	if c.err != nil {
		return u128.Zero, c.err
	}

	if ann.Cmp(u128.One) <= 0 {
		return u128.Zero, fmt.Errorf("%w: amplification %s gives A*n^n = %s", ErrInvalidIndex, s.amplification, ann)
	}
	denominator := c.add(
		c.mul(c.sub(ann, u128.One), d),
		c.mul(c.add(n, u128.One), dp),
	)
	if c.err != nil {
		return u128.Zero, c.err
	}
	if denominator.IsZero() {
		return u128.Zero, fmt.Errorf("%w: zero invariant denominator", ErrMathOverflow)
	}
	return c.div(numerator, denominator), c.err
}

// Quote returns the amount of token j received for dx of token i, net of the
// pool fee.
func (s *StableSwap) Quote(i, j int, dx u128.Uint128) (u128.Uint128, error) {
	return s.QuoteWithFee(i, j, dx, s.feeBps)
}

// QuoteWithFee is Quote with the pool fee replaced by feeBps. A zero fee
// gives the raw curve output.
func (s *StableSwap) QuoteWithFee(i, j int, dx u128.Uint128, feeBps uint16) (u128.Uint128, error) {
	if err := ValidateSwap(len(s.reserves), i, j, dx); err != nil {
		return u128.Zero, err
	}
	ann, n, err := s.ann()
	if err != nil {
		return u128.Zero, err
	}
	d, err := s.Invariant()
	if err != nil {
		return u128.Zero, err
	}
	y, err := s.solveY(i, j, dx, d, ann, n)
	if err != nil {
		return u128.Zero, err
	}

	old := s.reserves[j]
	if y.Gt(old) {
		return u128.Zero, fmt.Errorf("%w: token %d balance would rise from %s to %s", ErrInsufficientLiquidity, j, old, y)
	}
	dy, err := old.Sub(y)
	if err != nil {
		return u128.Zero, mathError(err)
	}
	return applyFee(dy, feeBps)
}

// solveY returns the balance of token j that keeps D unchanged after dx of
// token i is added. With S' and P' the sum and product of the other
// balances it solves
//
//	y^2 + c = y * (2y + b - D),  c = D^(n+1) / (n^n * P' * Ann),  b = S' + D/Ann
//
// by iterating y' = (y^2 + c) / (2y + b - D) from y = D.
func (s *StableSwap) solveY(i, j int, dx, d, ann, n u128.Uint128) (u128.Uint128, error) {
	var c calc
	sumExcl := u128.Zero
	term := d
	for k, r := range s.reserves {
		if k == j {
			continue
		}
		x := r
		if k == i {
			x = c.add(r, dx)
		}
		sumExcl = c.add(sumExcl, x)
		term = c.div(c.mul(term, d), c.mul(x, n))
	}
	term = c.div(c.div(c.mul(term, d), ann), n)
	b := c.add(sumExcl, c.div(d, ann))
	if c.err != nil {
		return u128.Zero, c.err
	}

	y := d
	for range maxIterations {
		numerator := c.add(c.mul(y, y), term)
		denominator := c.sub(c.add(c.mul(y, two), b), d)
		if c.err != nil {
			return u128.Zero, c.err
		}
		if denominator.IsZero() {
			return u128.Zero, fmt.Errorf("%w: zero y denominator", ErrMathOverflow)
		}
		next := c.div(numerator, denominator)
		done := converged(y, next)
		y = next
		if done {
			break
		}
	}
	return y, c.err
}

// Slippage returns the deviation in basis points of the pre-fee output from a
// 1:1 exchange, so it reflects the curve alone. Invalid inputs and failed
// quotes give 0.
func (s *StableSwap) Slippage(i, j int, dx u128.Uint128) int32 {
	if ValidateSwap(len(s.reserves), i, j, dx) != nil {
		return 0
	}
	actual, err := s.QuoteWithFee(i, j, dx, 0)
	if err != nil {
		return 0
	}
	return slippageBps(dx, actual)
}
