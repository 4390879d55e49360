// Package collide searches for primes p in [(n-1)^2, upper] dividing a value derived
// from a prime index n: a power sum or a quotient of Chebyshev polynomials evaluated at x.
package collide

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/jonathanmweiss/go-collide/chebyshev"
	"github.com/jonathanmweiss/go-collide/exact"
)

type StrategyKind string

const (
	KindPowerSum          StrategyKind = "power-sum"
	KindIntegerChebyshev  StrategyKind = "integer-chebyshev"
	KindFractionChebyshev StrategyKind = "exact-fraction-chebyshev"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrIndexTooSmall   = errors.New("chebyshev strategies need n >= 3")
	ErrZeroDivisor     = errors.New("quotient divisor evaluates to zero")
)

func ParseStrategyKind(s string) (StrategyKind, error) {
	switch k := StrategyKind(s); k {
	case KindPowerSum, KindIntegerChebyshev, KindFractionChebyshev:
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Strategy turns a candidate index into the integer that gets scanned.
// Can be a power sum or one of the Chebyshev quotients.
type Strategy interface {
	Kind() StrategyKind
	// X is the evaluation parameter.
	X() int64
	// Target computes the value to test for divisibility.
	Target(n uint64) (*big.Int, error)
	// Scale is the modulus-scale reported next to a collision.
	Scale(n uint64) uint64
}

// NewStrategy returns the strategy of the given kind evaluated at x.
// The generator is only used by the Chebyshev strategies and may be shared.
func NewStrategy(kind StrategyKind, x int64, gen *chebyshev.Generator) (Strategy, error) {
	if gen == nil {
		gen = chebyshev.NewGenerator()
	}

	switch kind {
	case KindPowerSum:
		return &PowerSum{x: x}, nil
	case KindIntegerChebyshev:
		return &IntegerChebyshev{x: x, gen: gen}, nil
	case KindFractionChebyshev:
		return &FractionChebyshev{x: x, gen: gen}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
}

// PowerSum computes x^0 + x^1 + ... + x^(n-2).
type PowerSum struct {
	x int64
}

func (s *PowerSum) Kind() StrategyKind { return KindPowerSum }

func (s *PowerSum) Scale(n uint64) uint64 { return n }

func (s *PowerSum) X() int64 { return s.x }

func (s *PowerSum) Target(n uint64) (*big.Int, error) {
	x := big.NewInt(s.x)
	sum := new(big.Int)
	term := big.NewInt(1)

	for i := uint64(0); i+1 < n; i++ {
		sum.Add(sum, term)
		term.Mul(term, x)
	}

	return sum, nil
}

// IntegerChebyshev evaluates the quotient at the truncated half x/2.
// For odd x this is not the same value as FractionChebyshev.
type IntegerChebyshev struct {
	x   int64
	gen *chebyshev.Generator
}

func (s *IntegerChebyshev) Kind() StrategyKind { return KindIntegerChebyshev }

func (s *IntegerChebyshev) Scale(n uint64) uint64 { return 4 * n }

func (s *IntegerChebyshev) X() int64 { return s.x }

func (s *IntegerChebyshev) Target(n uint64) (*big.Int, error) {
	final, err := quotientPolynomial(s.gen, n)
	if err != nil {
		return nil, err
	}

	half := big.NewInt(s.x / 2)

	t4 := s.gen.T(4).Eval(half)
	t2 := s.gen.T(2).Eval(half)

	return quo(final.Eval(t4), final.Eval(t2))
}

// FractionChebyshev keeps x/2 exact and only truncates after both evaluations.
type FractionChebyshev struct {
	x   int64
	gen *chebyshev.Generator
}

func (s *FractionChebyshev) Kind() StrategyKind { return KindFractionChebyshev }

func (s *FractionChebyshev) Scale(n uint64) uint64 { return 4 * n }

func (s *FractionChebyshev) X() int64 { return s.x }

func (s *FractionChebyshev) Target(n uint64) (*big.Int, error) {
	final, err := quotientPolynomial(s.gen, n)
	if err != nil {
		return nil, err
	}

	half := exact.MustFraction(big.NewInt(s.x), big.NewInt(2))

	t4 := s.gen.T(4).EvalFraction(half)
	t2 := s.gen.T(2).EvalFraction(half)

	num := final.EvalFraction(t4).ReduceToInteger()
	den := final.EvalFraction(t2).ReduceToInteger()

	return quo(num, den)
}

// quotientPolynomial returns U_{k-1} + U_k with k = (n-1)/2.
func quotientPolynomial(gen *chebyshev.Generator, n uint64) (*exact.Polynomial, error) {
	if n < 3 {
		return nil, ErrIndexTooSmall
	}

	k := int((n - 1) / 2)

	return gen.U(k - 1).Add(gen.U(k)), nil
}

func quo(num, den *big.Int) (*big.Int, error) {
	if den.Sign() == 0 {
		return nil, ErrZeroDivisor
	}

	return new(big.Int).Quo(num, den), nil
}
