package collide

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathanmweiss/go-collide/chebyshev"
	"github.com/jonathanmweiss/go-collide/primes"
)

type SearchParams struct {
	workers   int
	heartbeat uint64
	reporter  Reporter
}

var (
	ErrWorkers        = errors.New("number of workers must be positive")
	ErrCandidatePanic = errors.New("candidate panicked")
)

// NewSearchParams validates the worker pool size. A nil reporter discards events,
// a zero heartbeat means DefaultHeartbeat.
func NewSearchParams(workers int, heartbeat uint64, rep Reporter) (SearchParams, error) {
	if workers < 1 {
		return SearchParams{}, ErrWorkers
	}

	if heartbeat == 0 {
		heartbeat = DefaultHeartbeat
	}

	if rep == nil {
		rep = nopReporter{}
	}

	return SearchParams{
		workers:   workers,
		heartbeat: heartbeat,
		reporter:  rep,
	}, nil
}

// DefaultWorkers is one worker per CPU.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

func (p *SearchParams) Workers() int {
	return p.workers
}

func (p *SearchParams) Heartbeat() uint64 {
	return p.heartbeat
}

// Search runs batches of candidates over a fixed size worker pool.
// The Chebyshev generator and the sieves are shared by all workers of a search.
type Search struct {
	SearchParams
	logger *logrus.Logger
	gen    *chebyshev.Generator
	// swapped in tests.
	newStrategy func(StrategyKind, int64, *chebyshev.Generator) (Strategy, error)

	mu     sync.Mutex
	sieves map[uint64]*primes.Sieve
}

func NewSearch(p SearchParams, logger *logrus.Logger) *Search {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Search{
		SearchParams: p,
		logger:       logger,
		gen:          chebyshev.NewGenerator(),
		newStrategy:  NewStrategy,
		sieves:       make(map[uint64]*primes.Sieve),
	}
}

// Failure is a candidate that did not complete. The same index may fail in several batches.
type Failure struct {
	Batch int
	N     uint64
	Err   error
}

// Report holds the outcome of every candidate, in configuration order.
type Report struct {
	Results  []ScanResult
	Failures []Failure
}

// FailureFor returns the error of index n in the given batch, nil if it completed.
func (r *Report) FailureFor(batch int, n uint64) error {
	for _, f := range r.Failures {
		if f.Batch == batch && f.N == n {
			return f.Err
		}
	}

	return nil
}

func (r *Report) Collisions() []Collision {
	var out []Collision
	for _, res := range r.Results {
		out = append(out, res.Collisions...)
	}

	return out
}

func (r *Report) merge(o *Report) {
	r.Results = append(r.Results, o.Results...)
	r.Failures = append(r.Failures, o.Failures...)
}

/*
Run validates every batch first, a configuration error aborts before any work is done.
Batches then run one after the other. A failing candidate is recorded in the report and
does not stop its siblings.
*/
func (s *Search) Run(ctx context.Context, batches ...Batch) (*Report, error) {
	if len(batches) == 0 {
		return nil, ErrEmptyBatch
	}

	for i, b := range batches {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
	}

	report := &Report{}
	for i, b := range batches {
		r, err := s.runBatch(ctx, i, b)
		if r != nil {
			report.merge(r)
		}

		if err != nil {
			return report, err
		}
	}

	return report, nil
}

func (s *Search) sieve(upper uint64) (*primes.Sieve, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sv, ok := s.sieves[upper]; ok {
		return sv, nil
	}

	sv, err := primes.NewSieve(upper)
	if err != nil {
		return nil, err
	}

	s.sieves[upper] = sv

	return sv, nil
}

func (s *Search) runBatch(ctx context.Context, idx int, b Batch) (*Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"batch":      idx,
		"strategy":   b.Strategy,
		"x":          b.X,
		"upperBound": b.UpperBound,
	})

	for _, n := range b.NonPrimeCandidates() {
		log.WithField("n", n).Warn("candidate index is not prime")
	}

	sv, err := s.sieve(b.UpperBound)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", idx, err)
	}

	strategy, err := s.newStrategy(b.Strategy, b.X, s.gen)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", idx, err)
	}

	if b.Strategy != KindPowerSum {
		s.gen.T(4)
		s.gen.U(b.maxHalfIndex())
	}

	scanner := &Scanner{
		Source:    sv,
		Reporter:  s.reporter,
		Heartbeat: s.heartbeat,
	}

	start := time.Now()
	log.WithField("candidates", len(b.Candidates)).Info("batch started")

	results := make([]ScanResult, len(b.Candidates))
	errs := make([]error, len(b.Candidates))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, n := range b.Candidates {
		i, n := i, n
		g.Go(func() error {
			results[i], errs[i] = s.runCandidate(ctx, scanner, strategy, n)
			return nil
		})
	}

	_ = g.Wait()

	report := &Report{Results: results}
	for i, err := range errs {
		if err == nil {
			continue
		}

		n := b.Candidates[i]
		report.Failures = append(report.Failures, Failure{Batch: idx, N: n, Err: err})

		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.reporter.Failed(n, err)
		}
	}

	log.WithFields(logrus.Fields{
		"collisions": len(report.Collisions()),
		"failures":   len(report.Failures),
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Info("batch done")

	return report, ctx.Err()
}

func (s *Search) runCandidate(ctx context.Context, sc *Scanner, st Strategy, n uint64) (res ScanResult, err error) {
	res.N = n

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCandidatePanic, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	c, err := NewCandidate(n, st)
	if err != nil {
		return res, fmt.Errorf("n = %d: %w", n, err)
	}

	if s.logger.IsLevelEnabled(logrus.DebugLevel) {
		s.logger.WithFields(logrus.Fields{
			"n":      n,
			"lower":  c.Lower,
			"digits": len(c.Decimal()),
		}).Debug("target computed")
	}

	return sc.Scan(ctx, c)
}
