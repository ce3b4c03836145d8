package amm

import (
	"slices"

	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

// ConstantProduct prices swaps on the x*y=k curve. The fee is taken from the
// output amount.
type ConstantProduct struct {
	reserves []u128.Uint128
	feeBps   uint16
}

// NewConstantProduct returns a pool over a copy of reserves.
func NewConstantProduct(reserves []u128.Uint128, feeBps uint16) (*ConstantProduct, error) {
	if len(reserves) < 2 {
		return nil, ErrPoolSizeTooSmall
	}
	return &ConstantProduct{
		reserves: slices.Clone(reserves),
		feeBps:   feeBps,
	}, nil
}

func (p *ConstantProduct) Model() Model { return ModelConstantProduct }

// Reserves returns a copy of the pool balances.
func (p *ConstantProduct) Reserves() []u128.Uint128 { return slices.Clone(p.reserves) }

func (p *ConstantProduct) FeeBps() uint16 { return p.feeBps }

// Quote returns the amount of token j received for dx of token i, net of fee:
//
//	dy = reserves[j] * dx / (reserves[i] + dx)
//	dy_net = dy * (10000 - fee) / 10000
func (p *ConstantProduct) Quote(i, j int, dx u128.Uint128) (u128.Uint128, error) {
	if err := ValidateSwap(len(p.reserves), i, j, dx); err != nil {
		return u128.Zero, err
	}

	var c calc
	newX := c.add(p.reserves[i], dx)
	dy := c.div(c.mul(p.reserves[j], dx), newX)
	if c.err != nil {
		return u128.Zero, c.err
	}
	return applyFee(dy, p.feeBps)
}

// Slippage returns the deviation in basis points of the fee-inclusive quote
// from a 1:1 exchange. Invalid inputs give 0 and a failed quote counts as a
// zero output.
func (p *ConstantProduct) Slippage(i, j int, dx u128.Uint128) int32 {
	if ValidateSwap(len(p.reserves), i, j, dx) != nil {
		return 0
	}
	actual, err := p.Quote(i, j, dx)
	if err != nil {
		actual = u128.Zero
	}
	return slippageBps(dx, actual)
}
