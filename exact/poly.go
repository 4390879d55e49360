package exact

import (
	"math/big"
	"strings"
)

type Polynomial struct {
	inner []*big.Int
}

/*
Polynomial expects the coefficients ordered from lowest to highest degree.
(e.g. [1, 2, 3] is 1 + 2x + 3x^2)

The coefficients are copied, the polynomial never shares storage with the caller.
Leading zeroes are kept: Degree is always len(coeffs)-1.
*/
func NewPolynomial(coeffs []*big.Int) *Polynomial {
	if len(coeffs) == 0 {
		panic("empty polynomial")
	}

	inner := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		if c == nil {
			inner[i] = new(big.Int)
			continue
		}

		inner[i] = new(big.Int).Set(c)
	}

	return &Polynomial{inner: inner}
}

// FromInt64s builds a polynomial from small coefficients, lowest degree first.
func FromInt64s(coeffs ...int64) *Polynomial {
	if len(coeffs) == 0 {
		panic("empty polynomial")
	}

	inner := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		inner[i] = big.NewInt(c)
	}

	return &Polynomial{inner: inner}
}

func zeroPolynomial(n int) *Polynomial {
	inner := make([]*big.Int, n)
	for i := range inner {
		inner[i] = new(big.Int)
	}

	return &Polynomial{inner: inner}
}

// Degree is len-1, no trimming of zero leading coefficients is done.
func (p *Polynomial) Degree() int {
	return len(p.inner) - 1
}

// Coeff returns a copy of the coefficient of x^i, zero when i is out of range.
func (p *Polynomial) Coeff(i int) *big.Int {
	if i < 0 || i >= len(p.inner) {
		return new(big.Int)
	}

	return new(big.Int).Set(p.inner[i])
}

func (p *Polynomial) LeadCoeff() *big.Int {
	return new(big.Int).Set(p.inner[len(p.inner)-1])
}

func (p *Polynomial) IsZero() bool {
	for _, c := range p.inner {
		if c.Sign() != 0 {
			return false
		}
	}

	return true
}

// Equals compares coefficient-wise. Polynomials of different length are never equal.
func (p *Polynomial) Equals(q *Polynomial) bool {
	if len(p.inner) != len(q.inner) {
		return false
	}

	for i := range p.inner {
		if p.inner[i].Cmp(q.inner[i]) != 0 {
			return false
		}
	}

	return true
}

func (p *Polynomial) Copy() *Polynomial {
	return NewPolynomial(p.inner)
}

func (p *Polynomial) ToSlice() []*big.Int {
	list := make([]*big.Int, len(p.inner))
	for i, c := range p.inner {
		list[i] = new(big.Int).Set(c)
	}

	return list
}

// Int64s returns the coefficients as int64, ok is false if one does not fit.
func (p *Polynomial) Int64s() (coeffs []int64, ok bool) {
	coeffs = make([]int64, len(p.inner))
	for i, c := range p.inner {
		if !c.IsInt64() {
			return nil, false
		}

		coeffs[i] = c.Int64()
	}

	return coeffs, true
}

func (p *Polynomial) String() string {
	bldr := strings.Builder{}

	for i := len(p.inner) - 1; i >= 0; i-- {
		c := p.inner[i]
		if c.Sign() == 0 {
			continue
		}

		if bldr.Len() > 0 {
			bldr.WriteString(" + ")
		}

		bldr.WriteString(c.String())
		if i != 0 {
			bldr.WriteString("*x^")
			bldr.WriteString(big.NewInt(int64(i)).String())
		}
	}

	if bldr.Len() == 0 {
		return "0"
	}

	return bldr.String()
}
