package collide

import (
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Collision is a prime in the scanned range dividing a candidate's target.
type Collision struct {
	Prime uint64
	Scale uint64
	X     int64
	N     uint64
}

// Reporter receives scan events. Implementations must be safe for concurrent use,
// events of different candidates interleave in any order.
type Reporter interface {
	Started(n, scale uint64)
	Progress(n, scale uint64)
	Collision(c Collision)
	Failed(n uint64, err error)
}

// LogReporter writes every event as one log line.
type LogReporter struct {
	Logger *logrus.Logger
	// Strategy is attached to every line when set.
	Strategy StrategyKind
}

func NewLogReporter(logger *logrus.Logger, kind StrategyKind) *LogReporter {
	return &LogReporter{Logger: logger, Strategy: kind}
}

func (r *LogReporter) entry(n uint64) *logrus.Entry {
	e := r.Logger.WithField("n", n)
	if r.Strategy != "" {
		e = e.WithField("strategy", r.Strategy)
	}

	return e
}

func (r *LogReporter) Started(n, scale uint64) {
	r.entry(n).Infof("Calculations started for n = %d.", scale)
}

func (r *LogReporter) Progress(n, scale uint64) {
	r.entry(n).Infof("Done 50%% of the range for n = %d.", scale)
}

func (r *LogReporter) Collision(c Collision) {
	r.entry(c.N).Warnf("Collision found for (p, q) = (%d, %d), at x = %d", c.Prime, c.Scale, c.X)
}

func (r *LogReporter) Failed(n uint64, err error) {
	r.entry(n).WithError(err).Error("candidate aborted")
}

// Collector keeps every event in memory.
type Collector struct {
	mu         sync.Mutex
	started    []uint64
	progress   []uint64
	collisions []Collision
	failed     map[uint64]error
}

func NewCollector() *Collector {
	return &Collector{failed: make(map[uint64]error)}
}

func (c *Collector) Started(n, _ uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.started = append(c.started, n)
}

func (c *Collector) Progress(n, _ uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.progress = append(c.progress, n)
}

func (c *Collector) Collision(col Collision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.collisions = append(c.collisions, col)
}

func (c *Collector) Failed(n uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// an index failing in several batches keeps every error.
	c.failed[n] = errors.Join(c.failed[n], err)
}

// StartedFor returns the sorted indices that emitted a start event.
func (c *Collector) StartedFor() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := append([]uint64(nil), c.started...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func (c *Collector) ProgressCount(n uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, m := range c.progress {
		if m == n {
			count++
		}
	}

	return count
}

// Collisions returns the collisions of index n in the order they were reported.
func (c *Collector) Collisions(n uint64) []Collision {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Collision
	for _, col := range c.collisions {
		if col.N == n {
			out = append(out, col)
		}
	}

	return out
}

func (c *Collector) Failures() map[uint64]error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[uint64]error, len(c.failed))
	for n, err := range c.failed {
		out[n] = err
	}

	return out
}
