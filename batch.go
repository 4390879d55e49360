package collide

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/ring"

	"github.com/jonathanmweiss/go-collide/primes"
)

// Batch is one configured run: every candidate is scanned up to UpperBound with the
// same strategy and evaluation parameter.
type Batch struct {
	Candidates []uint64
	UpperBound uint64
	X          int64
	Strategy   StrategyKind
}

var (
	ErrEmptyBatch         = errors.New("batch has no candidates")
	ErrNonPositiveIndex   = errors.New("candidate index must be positive")
	ErrUpperBoundTooSmall = errors.New("upper bound must be at least 2")
)

func (b Batch) Validate() error {
	if len(b.Candidates) == 0 {
		return ErrEmptyBatch
	}

	if _, err := ParseStrategyKind(string(b.Strategy)); err != nil {
		return err
	}

	for _, n := range b.Candidates {
		if n == 0 {
			return ErrNonPositiveIndex
		}

		if n < 3 && b.Strategy != KindPowerSum {
			return fmt.Errorf("n = %d: %w", n, ErrIndexTooSmall)
		}
	}

	if b.UpperBound < 2 {
		return ErrUpperBoundTooSmall
	}

	if b.UpperBound > primes.MaxUpper {
		return primes.ErrUpperTooLarge
	}

	return nil
}

// NonPrimeCandidates lists the indices that are not prime.
// They are still scanned, the (n-1)^2 lower bound is only meaningful for prime n.
func (b Batch) NonPrimeCandidates() []uint64 {
	var out []uint64
	for _, n := range b.Candidates {
		if n < 2 || !ring.IsPrime(n) {
			out = append(out, n)
		}
	}

	return out
}

// maxHalfIndex is the largest k = (n-1)/2 of the batch.
func (b Batch) maxHalfIndex() int {
	k := 0
	for _, n := range b.Candidates {
		k = max(k, int((n-1)/2))
	}

	return k
}
