package amm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

func reserves(vals ...uint64) []u128.Uint128 {
	out := make([]u128.Uint128, len(vals))
	for i, v := range vals {
		out[i] = u128.From64(v)
	}
	return out
}

func TestNewConstantProduct_PoolSizeTooSmall(t *testing.T) {
	_, err := NewConstantProduct(nil, 6)
	require.ErrorIs(t, err, ErrPoolSizeTooSmall)

	_, err = NewConstantProduct(reserves(1000), 6)
	require.ErrorIs(t, err, ErrPoolSizeTooSmall)
}

func TestNewConstantProduct_CopiesReserves(t *testing.T) {
	require := require.New(t)

	in := reserves(300, 1000)
	pool, err := NewConstantProduct(in, 6)
	require.NoError(err)

	in[0] = u128.From64(1)
	require.Equal(reserves(300, 1000), pool.Reserves())

	out := pool.Reserves()
	out[1] = u128.Zero
	require.Equal(reserves(300, 1000), pool.Reserves())
}

func TestConstantProduct_Quote(t *testing.T) {
	tests := []struct {
		name     string
		reserves []u128.Uint128
		fee      uint16
		i, j     int
		dx       uint64
		want     uint64
	}{
		{name: "with fee", reserves: reserves(300, 1000), fee: 6, i: 0, j: 1, dx: 400, want: 570},
		{name: "no fee", reserves: reserves(300, 1000), fee: 0, i: 0, j: 1, dx: 400, want: 571},
		{name: "reverse", reserves: reserves(300, 1000), fee: 6, i: 1, j: 0, dx: 400, want: 84},
		{name: "balanced", reserves: reserves(500_000, 500_000), fee: 10, i: 0, j: 1, dx: 10_000, want: 9793},
		{name: "skewed", reserves: reserves(1_000_000, 200_000), fee: 4, i: 0, j: 1, dx: 50_000, want: 9519},
		{name: "three tokens", reserves: reserves(800_000, 1_200_000, 1_000_000), fee: 8, i: 0, j: 2, dx: 25_000, want: 30278},
		{name: "empty input side", reserves: reserves(0, 1000), fee: 0, i: 0, j: 1, dx: 5, want: 1000},
		{name: "empty output side", reserves: reserves(1000, 0), fee: 0, i: 0, j: 1, dx: 5, want: 0},
		{name: "full fee", reserves: reserves(300, 1000), fee: 10_000, i: 0, j: 1, dx: 400, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewConstantProduct(tt.reserves, tt.fee)
			require.NoError(t, err)

			got, err := pool.Quote(tt.i, tt.j, u128.From64(tt.dx))
			require.NoError(t, err)
			require.Equal(t, u128.From64(tt.want), got)
		})
	}
}

func TestConstantProduct_QuoteErrors(t *testing.T) {
	pool, err := NewConstantProduct(reserves(300, 1000), 6)
	require.NoError(t, err)

	tests := []struct {
		name    string
		i, j    int
		dx      u128.Uint128
		wantErr error
	}{
		{name: "same index", i: 1, j: 1, dx: u128.From64(400), wantErr: ErrInvalidIndex},
		{name: "input out of range", i: 2, j: 1, dx: u128.From64(400), wantErr: ErrInvalidIndex},
		{name: "output out of range", i: 0, j: 5, dx: u128.From64(400), wantErr: ErrInvalidIndex},
		{name: "negative index", i: -1, j: 1, dx: u128.From64(400), wantErr: ErrInvalidIndex},
		{name: "same index and zero amount", i: 0, j: 0, dx: u128.Zero, wantErr: ErrInvalidIndex},
		{name: "zero amount", i: 0, j: 1, dx: u128.Zero, wantErr: ErrZeroAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pool.Quote(tt.i, tt.j, tt.dx)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstantProduct_QuoteOverflow(t *testing.T) {
	two127, err := u128.From64(2).Pow(127)
	require.NoError(t, err)

	// reserves[i] + dx overflows.
	pool, err := NewConstantProduct([]u128.Uint128{two127, two127}, 0)
	require.NoError(t, err)
	_, err = pool.Quote(0, 1, two127)
	require.ErrorIs(t, err, ErrMathOverflow)
	require.ErrorIs(t, err, u128.ErrOverflow)

	// reserves[j] * dx overflows.
	pool, err = NewConstantProduct([]u128.Uint128{u128.One, u128.Max}, 0)
	require.NoError(t, err)
	_, err = pool.Quote(0, 1, u128.From64(2))
	require.ErrorIs(t, err, ErrMathOverflow)

	// dy * (10000 - fee) overflows.
	huge, err := u128.From64(2).Pow(120)
	require.NoError(t, err)
	pool, err = NewConstantProduct([]u128.Uint128{u128.One, huge}, 0)
	require.NoError(t, err)
	_, err = pool.Quote(0, 1, u128.From64(1))
	require.ErrorIs(t, err, ErrMathOverflow)
}

func TestConstantProduct_FeeAboveDenominator(t *testing.T) {
	pool, err := NewConstantProduct(reserves(300, 1000), 10_001)
	require.NoError(t, err)

	_, err = pool.Quote(0, 1, u128.From64(400))
	require.ErrorIs(t, err, ErrMathOverflow)
	require.ErrorIs(t, err, u128.ErrUnderflow)
}

func TestConstantProduct_Slippage(t *testing.T) {
	tests := []struct {
		name     string
		reserves []u128.Uint128
		fee      uint16
		i, j     int
		dx       uint64
		want     int32
	}{
		{name: "better than peg", reserves: reserves(300, 1000), fee: 6, i: 0, j: 1, dx: 400, want: -4250},
		{name: "worse than peg", reserves: reserves(300, 1000), fee: 6, i: 1, j: 0, dx: 400, want: 7900},
		{name: "balanced", reserves: reserves(500_000, 500_000), fee: 10, i: 0, j: 1, dx: 10_000, want: 207},
		{name: "skewed", reserves: reserves(1_000_000, 200_000), fee: 4, i: 0, j: 1, dx: 50_000, want: 8096},
		{name: "three tokens", reserves: reserves(800_000, 1_200_000, 1_000_000), fee: 8, i: 0, j: 2, dx: 25_000, want: -2111},
		{name: "includes fee", reserves: reserves(1_000_000_000_000, 1_000_000_000_000), fee: 4, i: 0, j: 1, dx: 1_000_000_000, want: 14},
		{name: "empty output counts as zero", reserves: reserves(1000, 0), fee: 0, i: 0, j: 1, dx: 5, want: 10_000},
		{name: "clamped", reserves: reserves(1, 1_000_000_000_000), fee: 0, i: 0, j: 1, dx: 1, want: math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewConstantProduct(tt.reserves, tt.fee)
			require.NoError(t, err)
			require.Equal(t, tt.want, pool.Slippage(tt.i, tt.j, u128.From64(tt.dx)))
		})
	}
}

func TestConstantProduct_SlippageDegenerate(t *testing.T) {
	pool, err := NewConstantProduct(reserves(300, 1000), 6)
	require.NoError(t, err)

	require.Zero(t, pool.Slippage(0, 0, u128.From64(400)))
	require.Zero(t, pool.Slippage(0, 2, u128.From64(400)))
	require.Zero(t, pool.Slippage(0, 1, u128.Zero))
}

func TestConstantProduct_SlippageFailedQuote(t *testing.T) {
	pool, err := NewConstantProduct([]u128.Uint128{u128.One, u128.Max}, 0)
	require.NoError(t, err)

	// The quote overflows and counts as a zero output.
	require.Equal(t, int32(10_000), pool.Slippage(0, 1, u128.From64(2)))
}
