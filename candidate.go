package collide

import (
	"math"
	"math/big"
	"math/bits"
)

// Candidate is one index with everything its scan needs.
type Candidate struct {
	N uint64
	// Scale is the modulus-scale reported in events, n or 4n depending on the strategy.
	Scale uint64
	// Lower is the first value scanned, (n-1)^2.
	Lower uint64
	X     int64

	Target *big.Int
	res    residues
}

// NewCandidate evaluates the strategy for index n.
func NewCandidate(n uint64, s Strategy) (*Candidate, error) {
	target, err := s.Target(n)
	if err != nil {
		return nil, err
	}

	return &Candidate{
		N:      n,
		Scale:  s.Scale(n),
		Lower:  LowerBound(n),
		X:      s.X(),
		Target: target,
		res:    newResidues(target),
	}, nil
}

// LowerBound returns (n-1)^2, saturating at math.MaxUint64.
func LowerBound(n uint64) uint64 {
	if n == 0 {
		return 0
	}

	hi, lo := bits.Mul64(n-1, n-1)
	if hi != 0 {
		return math.MaxUint64
	}

	return lo
}

// Decimal is the canonical base 10 form of the target.
func (c *Candidate) Decimal() string {
	return c.Target.String()
}

func (c *Candidate) DivisibleBy(p uint64) bool {
	return c.res.divisibleBy(p)
}
