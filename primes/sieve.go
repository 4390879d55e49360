// Package primes enumerates primes in ascending order with a segmented sieve of Eratosthenes.
//
// A Sieve only holds the base primes up to sqrt(upper). It is immutable once built and can be
// shared by any number of goroutines, each walking its own Iterator.
package primes

import (
	"context"
	"errors"
	"math"
)

// MaxUpper bounds the sieve so that base primes stay small and segment arithmetic can't overflow.
const MaxUpper = 1 << 48

// number of odd values covered by one segment.
const segmentSize = 1 << 18

var ErrUpperTooLarge = errors.New("sieve upper bound too large")

type Sieve struct {
	upper uint64
	// odd primes <= sqrt(upper).
	base []uint32
}

func NewSieve(upper uint64) (*Sieve, error) {
	if upper > MaxUpper {
		return nil, ErrUpperTooLarge
	}

	return &Sieve{
		upper: upper,
		base:  oddPrimesUpTo(isqrt(upper)),
	}, nil
}

func (s *Sieve) Upper() uint64 {
	return s.upper
}

// BasePrimes returns the sieving primes, including 2.
func (s *Sieve) BasePrimes() []uint64 {
	out := make([]uint64, 0, len(s.base)+1)
	if s.upper >= 4 {
		out = append(out, 2)
	}

	for _, p := range s.base {
		out = append(out, uint64(p))
	}

	return out
}

// From returns an iterator over the primes p with lower <= p <= upper.
func (s *Sieve) From(lower uint64) *Iterator {
	it := &Iterator{
		s:    s,
		next: 3,
	}

	if s.upper < 2 {
		it.next = s.upper + 1

		return it
	}

	if lower <= 2 {
		it.two = true
	}

	if lower > 3 {
		it.next = lower | 1
	}

	return it
}

// Each calls fn for every prime in [lower, upper] in ascending order.
// The context is checked between segments.
func (s *Sieve) Each(ctx context.Context, lower uint64, fn func(p uint64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	it := s.From(lower)
	seen := it.segments

	for {
		p, ok := it.Next()
		if !ok {
			return nil
		}

		if it.segments != seen {
			seen = it.segments
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		fn(p)
	}
}

// Count returns the number of primes in [lower, upper].
func (s *Sieve) Count(lower uint64) uint64 {
	var n uint64

	it := s.From(lower)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}

	return n
}

// Iterator walks the primes of one Sieve. It is not safe for concurrent use.
type Iterator struct {
	s *Sieve

	two bool
	// first odd value of the next segment.
	next uint64

	segLow    uint64
	composite []bool
	pos       int
	segments  int
}

func (it *Iterator) Next() (uint64, bool) {
	if it.two {
		it.two = false

		return 2, true
	}

	for {
		for it.pos < len(it.composite) {
			i := it.pos
			it.pos++

			if !it.composite[i] {
				return it.segLow + 2*uint64(i), true
			}
		}

		if !it.fill() {
			return 0, false
		}
	}
}

func (it *Iterator) fill() bool {
	upper := it.s.upper
	if it.next > upper {
		return false
	}

	low := it.next
	count := min(uint64(segmentSize), (upper-low)/2+1)
	high := low + 2*(count-1)

	if it.composite == nil {
		it.composite = make([]bool, segmentSize)
	}

	seg := it.composite[:count]
	for i := range seg {
		seg[i] = false
	}

	for _, b := range it.s.base {
		p := uint64(b)
		if p*p > high {
			break
		}

		start := p * p
		if start < low {
			start = (low + p - 1) / p * p
			if start%2 == 0 {
				start += p
			}
		}

		for j := start; j <= high; j += 2 * p {
			seg[(j-low)/2] = true
		}
	}

	it.composite = seg
	it.segLow = low
	it.pos = 0
	it.next = high + 2
	it.segments++

	return true
}

// oddPrimesUpTo is a plain sieve of Eratosthenes, used for the base primes only.
func oddPrimesUpTo(n uint64) []uint32 {
	if n < 3 {
		return nil
	}

	composite := make([]bool, n+1)
	var out []uint32

	for i := uint64(3); i <= n; i += 2 {
		if composite[i] {
			continue
		}

		out = append(out, uint32(i))
		for j := i * i; j <= n; j += 2 * i {
			composite[j] = true
		}
	}

	return out
}

func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}

	for (r+1)*(r+1) <= n {
		r++
	}

	return r
}
