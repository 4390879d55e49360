package exact

import (
	"errors"
	"math/big"
)

// Fraction is an exact rational num/den with den > 0.
// It is never reduced to lowest terms.
type Fraction struct {
	num *big.Int
	den *big.Int
}

var (
	ErrZeroDenominator     = errors.New("fraction denominator is zero")
	ErrNegativeDenominator = errors.New("fraction denominator is negative")
)

func NewFraction(num, den *big.Int) (Fraction, error) {
	switch den.Sign() {
	case 0:
		return Fraction{}, ErrZeroDenominator
	case -1:
		return Fraction{}, ErrNegativeDenominator
	}

	return Fraction{
		num: new(big.Int).Set(num),
		den: new(big.Int).Set(den),
	}, nil
}

// MustFraction is NewFraction that panics on an invalid denominator.
func MustFraction(num, den *big.Int) Fraction {
	f, err := NewFraction(num, den)
	if err != nil {
		panic(err)
	}

	return f
}

func FractionFromInt64(num, den int64) (Fraction, error) {
	return NewFraction(big.NewInt(num), big.NewInt(den))
}

// IntegerFraction returns num/1.
func IntegerFraction(num *big.Int) Fraction {
	return Fraction{
		num: new(big.Int).Set(num),
		den: big.NewInt(1),
	}
}

func (f Fraction) Num() *big.Int {
	return new(big.Int).Set(f.num)
}

func (f Fraction) Den() *big.Int {
	return new(big.Int).Set(f.den)
}

// Add uses the lcm of both denominators as the common denominator.
func (f Fraction) Add(g Fraction) Fraction {
	return f.combine(g, (*big.Int).Add)
}

func (f Fraction) Sub(g Fraction) Fraction {
	return f.combine(g, (*big.Int).Sub)
}

func (f Fraction) combine(g Fraction, op func(z, x, y *big.Int) *big.Int) Fraction {
	lcd := lcm(f.den, g.den)

	a := new(big.Int).Quo(lcd, f.den)
	a.Mul(a, f.num)

	b := new(big.Int).Quo(lcd, g.den)
	b.Mul(b, g.num)

	return Fraction{num: op(a, a, b), den: lcd}
}

func (f Fraction) Mul(g Fraction) Fraction {
	return Fraction{
		num: new(big.Int).Mul(f.num, g.num),
		den: new(big.Int).Mul(f.den, g.den),
	}
}

// ReduceToInteger truncates num/den toward zero.
func (f Fraction) ReduceToInteger() *big.Int {
	return new(big.Int).Quo(f.num, f.den)
}

// Cmp compares the values of f and g, not their representation.
func (f Fraction) Cmp(g Fraction) int {
	l := new(big.Int).Mul(f.num, g.den)
	r := new(big.Int).Mul(g.num, f.den)

	return l.Cmp(r)
}

func (f Fraction) Equals(g Fraction) bool {
	return f.Cmp(g) == 0
}

func (f Fraction) IsZero() bool {
	return f.num.Sign() == 0
}

func (f Fraction) String() string {
	return f.num.String() + "/" + f.den.String()
}

func lcm(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	l := new(big.Int).Quo(a, g)

	return l.Mul(l, b)
}

// Sum is either empty (no value yet) or holds a concrete Fraction.
// The zero value is empty, adding to an empty sum yields the addend unchanged.
type Sum struct {
	f  Fraction
	ok bool
}

// Of returns a sum holding f.
func Of(f Fraction) Sum {
	return Sum{f: f, ok: true}
}

func (s Sum) Fraction() (Fraction, bool) {
	return s.f, s.ok
}

func (s Sum) IsEmpty() bool {
	return !s.ok
}

func (s Sum) Add(f Fraction) Sum {
	if !s.ok {
		return Of(f)
	}

	return Of(s.f.Add(f))
}

// Plus combines two sums. Empty sums are the identity.
func (s Sum) Plus(t Sum) Sum {
	switch {
	case !t.ok:
		return s
	case !s.ok:
		return t
	}

	return Of(s.f.Add(t.f))
}
