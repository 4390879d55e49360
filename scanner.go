package collide

import (
	"context"
	"errors"
)

// DefaultHeartbeat is the number of primes between two progress events.
const DefaultHeartbeat = 1_000_000_000

var ErrNoPrimeSource = errors.New("scanner has no prime source")

// PrimeSource yields the primes p >= lower, up to its own upper bound, in ascending order.
// *primes.Sieve implements it.
type PrimeSource interface {
	Each(ctx context.Context, lower uint64, fn func(p uint64)) error
}

type Scanner struct {
	Source   PrimeSource
	Reporter Reporter
	// Heartbeat defaults to DefaultHeartbeat when zero.
	Heartbeat uint64
}

type ScanResult struct {
	N          uint64
	Examined   uint64
	Collisions []Collision
}

/*
Scan tests every prime from the candidate's lower bound on. The first prime examined
emits a start event, every Heartbeat-th prime (counted from 1) a progress event, so with a
heartbeat of 1 the first prime emits both. A collision never stops the scan, collisions are
reported in ascending prime order.
*/
func (s *Scanner) Scan(ctx context.Context, c *Candidate) (ScanResult, error) {
	res := ScanResult{N: c.N}
	if s.Source == nil {
		return res, ErrNoPrimeSource
	}

	heartbeat := s.Heartbeat
	if heartbeat == 0 {
		heartbeat = DefaultHeartbeat
	}

	rep := s.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	err := s.Source.Each(ctx, c.Lower, func(p uint64) {
		res.Examined++

		if res.Examined == 1 {
			rep.Started(c.N, c.Scale)
		}

		if res.Examined%heartbeat == 0 {
			rep.Progress(c.N, c.Scale)
		}

		if c.DivisibleBy(p) {
			col := Collision{Prime: p, Scale: c.Scale, X: c.X, N: c.N}
			res.Collisions = append(res.Collisions, col)
			rep.Collision(col)
		}
	})

	return res, err
}

type nopReporter struct{}

func (nopReporter) Started(uint64, uint64)  {}
func (nopReporter) Progress(uint64, uint64) {}
func (nopReporter) Collision(Collision)     {}
func (nopReporter) Failed(uint64, error)    {}
