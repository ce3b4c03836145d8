// Package u128 implements checked unsigned 128-bit integer arithmetic.
//
// Every operation either returns the exact result or an error; values never
// wrap around. Uint128 is a value type and is safe to copy and share.
package u128

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow       = errors.New("u128: overflow")
	ErrUnderflow      = errors.New("u128: underflow")
	ErrDivisionByZero = errors.New("u128: division by zero")
	ErrInvalidNumber  = errors.New("u128: invalid number")
)

// Uint128 is an unsigned integer in [0, 2^128-1].
// The zero value is 0.
type Uint128 struct {
	v uint256.Int
}

var (
	Zero = Uint128{}
	One  = From64(1)
	// Max is 2^128-1.
	Max = Uint128{v: uint256.Int{math.MaxUint64, math.MaxUint64, 0, 0}}
)

// From64 returns x as a Uint128.
func From64(x uint64) Uint128 {
	var u Uint128
	u.v.SetUint64(x)
	return u
}

// FromDecimal parses a base-10 string. Values above Max are rejected with
// ErrOverflow.
func FromDecimal(s string) (Uint128, error) {
	var u Uint128
	if s == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}
	if err := u.v.SetFromDecimal(s); err != nil {
		if errors.Is(err, uint256.ErrBig256Range) {
			return Zero, ErrOverflow
		}
		return Zero, fmt.Errorf("%w: %q: %v", ErrInvalidNumber, s, err)
	}
	if !fits(&u.v) {
		return Zero, ErrOverflow
	}
	return u, nil
}

// MustFromDecimal is like FromDecimal but panics on error. Intended for
// constants and tests.
func MustFromDecimal(s string) Uint128 {
	u, err := FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return u
}

// FromBig converts b, rejecting negative values and values above Max.
func FromBig(b *big.Int) (Uint128, error) {
	if b == nil {
		return Zero, fmt.Errorf("%w: nil", ErrInvalidNumber)
	}
	if b.Sign() < 0 {
		return Zero, ErrUnderflow
	}
	var u Uint128
	if overflow := u.v.SetFromBig(b); overflow || !fits(&u.v) {
		return Zero, ErrOverflow
	}
	return u, nil
}

func fits(z *uint256.Int) bool {
	return z[2] == 0 && z[3] == 0
}

// Add returns x+y.
func (x Uint128) Add(y Uint128) (Uint128, error) {
	var z Uint128
	z.v.Add(&x.v, &y.v)
	if !fits(&z.v) {
		return Zero, ErrOverflow
	}
	return z, nil
}

// Sub returns x-y.
func (x Uint128) Sub(y Uint128) (Uint128, error) {
	if x.v.Lt(&y.v) {
		return Zero, ErrUnderflow
	}
	var z Uint128
	z.v.Sub(&x.v, &y.v)
	return z, nil
}

// Mul returns x*y. The full product of two 128-bit operands always fits
// in 256 bits, so only the upper half needs checking.
func (x Uint128) Mul(y Uint128) (Uint128, error) {
	var z Uint128
	z.v.Mul(&x.v, &y.v)
	if !fits(&z.v) {
		return Zero, ErrOverflow
	}
	return z, nil
}

// Div returns floor(x/y).
func (x Uint128) Div(y Uint128) (Uint128, error) {
	if y.IsZero() {
		return Zero, ErrDivisionByZero
	}
	var z Uint128
	z.v.Div(&x.v, &y.v)
	return z, nil
}

// Pow returns x^n.
func (x Uint128) Pow(n uint) (Uint128, error) {
	z := One
	for i := uint(0); i < n; i++ {
		var err error
		if z, err = z.Mul(x); err != nil {
			return Zero, err
		}
	}
	return z, nil
}

// AbsDiff returns |x-y|. It cannot fail.
func (x Uint128) AbsDiff(y Uint128) Uint128 {
	var z Uint128
	if x.v.Lt(&y.v) {
		z.v.Sub(&y.v, &x.v)
	} else {
		z.v.Sub(&x.v, &y.v)
	}
	return z
}

func (x Uint128) Cmp(y Uint128) int { return x.v.Cmp(&y.v) }
func (x Uint128) Eq(y Uint128) bool { return x.v.Eq(&y.v) }
func (x Uint128) Lt(y Uint128) bool { return x.v.Lt(&y.v) }
func (x Uint128) Gt(y Uint128) bool { return x.v.Gt(&y.v) }
func (x Uint128) IsZero() bool      { return x.v.IsZero() }

// IsUint64 reports whether x fits in a uint64.
func (x Uint128) IsUint64() bool { return x.v.IsUint64() }

// Uint64 returns the low 64 bits of x.
func (x Uint128) Uint64() uint64 { return x.v.Uint64() }

// Uint256 returns x widened to a newly allocated 256-bit integer, for callers
// that need headroom above 128 bits.
func (x Uint128) Uint256() *uint256.Int { return x.v.Clone() }

// Big returns x as a newly allocated big.Int.
func (x Uint128) Big() *big.Int { return x.v.ToBig() }

// String returns the base-10 representation of x.
func (x Uint128) String() string { return x.v.Dec() }

// MarshalText implements encoding.TextMarshaler using base 10.
func (x Uint128) MarshalText() ([]byte, error) {
	return []byte(x.v.Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Uint128) UnmarshalText(text []byte) error {
	u, err := FromDecimal(string(text))
	if err != nil {
		return err
	}
	*x = u
	return nil
}

// MarshalJSON encodes x as a quoted decimal string so that clients limited
// to 53-bit numbers do not lose precision.
func (x Uint128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + x.v.Dec() + `"`), nil
}

// UnmarshalJSON accepts a quoted or bare decimal number.
func (x *Uint128) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	return x.UnmarshalText(data)
}
