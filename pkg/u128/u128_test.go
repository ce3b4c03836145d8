package u128

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	require := require.New(t)

	z, err := From64(300).Add(From64(400))
	require.NoError(err)
	require.Equal(From64(700), z)

	z, err = Max.Add(Zero)
	require.NoError(err)
	require.Equal(Max, z)

	_, err = Max.Add(One)
	require.ErrorIs(err, ErrOverflow)
}

func TestSub(t *testing.T) {
	require := require.New(t)

	z, err := From64(1000).Sub(From64(1))
	require.NoError(err)
	require.Equal(From64(999), z)

	_, err = From64(1).Sub(From64(2))
	require.ErrorIs(err, ErrUnderflow)
}

func TestMul(t *testing.T) {
	require := require.New(t)

	z, err := From64(1000).Mul(From64(400))
	require.NoError(err)
	require.Equal(From64(400_000), z)

	two64 := MustFromDecimal("18446744073709551616")
	_, err = two64.Mul(two64)
	require.ErrorIs(err, ErrOverflow)

	_, err = Max.Mul(Max)
	require.ErrorIs(err, ErrOverflow)

	z, err = Max.Mul(Zero)
	require.NoError(err)
	require.True(z.IsZero())
}

func TestDiv(t *testing.T) {
	require := require.New(t)

	z, err := From64(400_000).Div(From64(700))
	require.NoError(err)
	require.Equal(From64(571), z)

	_, err = From64(1).Div(Zero)
	require.ErrorIs(err, ErrDivisionByZero)
}

func TestPow(t *testing.T) {
	require := require.New(t)

	z, err := From64(3).Pow(3)
	require.NoError(err)
	require.Equal(From64(27), z)

	z, err = From64(7).Pow(0)
	require.NoError(err)
	require.Equal(One, z)

	_, err = From64(2).Pow(128)
	require.ErrorIs(err, ErrOverflow)

	z, err = From64(2).Pow(127)
	require.NoError(err)
	require.Equal("170141183460469231731687303715884105728", z.String())
}

func TestAbsDiff(t *testing.T) {
	require.Equal(t, From64(5), From64(10).AbsDiff(From64(5)))
	require.Equal(t, From64(5), From64(5).AbsDiff(From64(10)))
	require.True(t, Max.AbsDiff(Max).IsZero())
}

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "small", in: "12345", want: "12345"},
		{name: "max", in: "340282366920938463463374607431768211455", want: "340282366920938463463374607431768211455"},
		{name: "above max", in: "340282366920938463463374607431768211456", wantErr: ErrOverflow},
		{name: "above 256 bits", in: "1" + strings.Repeat("0", 81), wantErr: ErrOverflow},
		{name: "empty", in: "", wantErr: ErrInvalidNumber},
		{name: "negative", in: "-1", wantErr: ErrInvalidNumber},
		{name: "garbage", in: "12a", wantErr: ErrInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromDecimal(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestFromBig(t *testing.T) {
	require := require.New(t)

	u, err := FromBig(big.NewInt(42))
	require.NoError(err)
	require.Equal(From64(42), u)

	_, err = FromBig(big.NewInt(-1))
	require.ErrorIs(err, ErrUnderflow)

	_, err = FromBig(new(big.Int).Lsh(big.NewInt(1), 128))
	require.ErrorIs(err, ErrOverflow)

	_, err = FromBig(new(big.Int).Lsh(big.NewInt(1), 300))
	require.ErrorIs(err, ErrOverflow)

	require.Equal(0, Max.Big().Cmp(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))))
}

func TestJSON(t *testing.T) {
	require := require.New(t)

	type payload struct {
		Amount Uint128 `json:"amount"`
	}
	b, err := json.Marshal(payload{Amount: Max})
	require.NoError(err)
	require.JSONEq(`{"amount":"340282366920938463463374607431768211455"}`, string(b))

	var p payload
	require.NoError(json.Unmarshal([]byte(`{"amount":"570"}`), &p))
	require.Equal(From64(570), p.Amount)

	require.NoError(json.Unmarshal([]byte(`{"amount":401}`), &p))
	require.Equal(From64(401), p.Amount)

	require.Error(json.Unmarshal([]byte(`{"amount":"340282366920938463463374607431768211456"}`), &p))
}

func TestCompare(t *testing.T) {
	require := require.New(t)

	require.True(From64(1).Lt(From64(2)))
	require.True(From64(2).Gt(From64(1)))
	require.True(From64(2).Eq(From64(2)))
	require.Equal(-1, Zero.Cmp(Max))
	require.True(From64(7).IsUint64())
	require.False(Max.IsUint64())
	require.Equal(uint64(7), From64(7).Uint64())
}
