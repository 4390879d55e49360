package exact

import (
	"errors"
	"math/big"
)

var (
	ErrInexactDivision        = errors.New("divisor does not exactly divide the dividend")
	ErrZeroLeadingCoefficient = errors.New("divisor has a zero leading coefficient")
)

// ---------- Poly ops ----------

// Add returns p + q. The result has max(len(p), len(q)) coefficients.
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	n := max(len(p.inner), len(q.inner))
	c := zeroPolynomial(n)

	for i := 0; i < n; i++ {
		if i < len(p.inner) {
			c.inner[i].Add(c.inner[i], p.inner[i])
		}

		if i < len(q.inner) {
			c.inner[i].Add(c.inner[i], q.inner[i])
		}
	}

	return c
}

// Sub returns p - q. The result has max(len(p), len(q)) coefficients.
func (p *Polynomial) Sub(q *Polynomial) *Polynomial {
	n := max(len(p.inner), len(q.inner))
	c := zeroPolynomial(n)

	for i := 0; i < n; i++ {
		if i < len(p.inner) {
			c.inner[i].Add(c.inner[i], p.inner[i])
		}

		if i < len(q.inner) {
			c.inner[i].Sub(c.inner[i], q.inner[i])
		}
	}

	return c
}

// Mul returns p * q using schoolbook convolution: O(n*m).
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	out := zeroPolynomial(len(p.inner) + len(q.inner) - 1)

	tmp := new(big.Int)
	for i, ai := range p.inner {
		if ai.Sign() == 0 {
			continue
		}

		for j, bj := range q.inner {
			// out[i+j] += a[i] * b[j]
			out.inner[i+j].Add(out.inner[i+j], tmp.Mul(ai, bj))
		}
	}

	return out
}

// MulScalar returns s * p.
func (p *Polynomial) MulScalar(s *big.Int) *Polynomial {
	out := zeroPolynomial(len(p.inner))
	for i, c := range p.inner {
		out.inner[i].Mul(c, s)
	}

	return out
}

// LongDiv returns q, r such that p = q*d + r, as long as the leading coefficient
// of d divides every working remainder term. Otherwise q is the truncated quotient
// and nothing is reported; use Div when exactness matters.
//
// If d.Degree() > p.Degree() the quotient is zero and the remainder is p.
func (p *Polynomial) LongDiv(d *Polynomial) (q *Polynomial, rem *Polynomial) {
	q, rem, _ = p.longDiv(d)
	return q, rem
}

func (p *Polynomial) longDiv(d *Polynomial) (q *Polynomial, rem *Polynomial, exact bool) {
	n, m := p.Degree(), d.Degree()
	if m > n {
		return zeroPolynomial(1), p.Copy(), true
	}

	lead := d.inner[m]
	if lead.Sign() == 0 {
		return zeroPolynomial(1), p.Copy(), false
	}

	rem = p.Copy()
	q = zeroPolynomial(n - m + 1)
	exact = true

	tmp := new(big.Int)
	mod := new(big.Int)
	for i := n - m; i >= 0; i-- {
		qi := q.inner[i]
		qi.QuoRem(rem.inner[m+i], lead, mod)
		if mod.Sign() != 0 {
			exact = false
		}

		if qi.Sign() == 0 {
			continue
		}

		for k, dk := range d.inner {
			rem.inner[k+i].Sub(rem.inner[k+i], tmp.Mul(dk, qi))
		}
	}

	return q, rem, exact
}

// Div returns p / d, failing when d does not divide p exactly over the integers.
func (p *Polynomial) Div(d *Polynomial) (*Polynomial, error) {
	if d.LeadCoeff().Sign() == 0 {
		return nil, ErrZeroLeadingCoefficient
	}

	if d.Degree() > p.Degree() {
		if p.IsZero() {
			return zeroPolynomial(1), nil
		}

		return nil, ErrInexactDivision
	}

	q, rem, exact := p.longDiv(d)
	if !exact || !rem.IsZero() {
		return nil, ErrInexactDivision
	}

	return q, nil
}

// Eval returns p(x) using horner's rule.
func (p *Polynomial) Eval(x *big.Int) *big.Int {
	result := new(big.Int)

	for i := len(p.inner) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.inner[i])
	}

	return result
}

// EvalFraction returns p(x) as an unreduced exact fraction.
func (p *Polynomial) EvalFraction(x Fraction) Fraction {
	var acc Sum

	for i := len(p.inner) - 1; i >= 0; i-- {
		if v, ok := acc.Fraction(); ok {
			acc = Of(v.Mul(x))
		}

		acc = acc.Add(IntegerFraction(p.inner[i]))
	}

	v, _ := acc.Fraction()

	return v
}

// Product multiplies a slice of polynomials.
func Product(polys []*Polynomial) *Polynomial {
	m := FromInt64s(1)
	for _, mi := range polys {
		m = m.Mul(mi)
	}

	return m
}
