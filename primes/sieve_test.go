package primes

import (
	"context"
	"testing"

	"github.com/cznic/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Sieve, lower uint64) []uint64 {
	var out []uint64

	it := s.From(lower)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		out = append(out, p)
	}

	return out
}

func naive(lower, upper uint64) []uint64 {
	var out []uint64
	for n := lower; n <= upper; n++ {
		if n >= 2 && mathutil.IsPrimeUint64(n) {
			out = append(out, n)
		}
	}

	return out
}

func TestSmallRanges(t *testing.T) {
	a := assert.New(t)

	tests := []struct {
		lower, upper uint64
		want         []uint64
	}{
		{0, 0, nil},
		{0, 1, nil},
		{0, 2, []uint64{2}},
		{3, 2, nil},
		{0, 30, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}},
		{16, 40, []uint64{17, 19, 23, 29, 31, 37}},
		{17, 17, []uint64{17}},
		{24, 28, nil},
		{50, 40, nil},
	}

	for _, tt := range tests {
		s, err := NewSieve(tt.upper)
		require.NoError(t, err)

		a.Equal(tt.want, collect(s, tt.lower), "[%d, %d]", tt.lower, tt.upper)
	}
}

func TestAgainstTrialDivision(t *testing.T) {
	a := assert.New(t)

	t.Run("fromZero", func(t *testing.T) {
		s, err := NewSieve(20000)
		require.NoError(t, err)

		a.Equal(naive(0, 20000), collect(s, 0))
	})

	// crosses several segment boundaries.
	t.Run("segments", func(t *testing.T) {
		upper := uint64(3*2*segmentSize + 1001)
		lower := uint64(2*segmentSize - 500)

		s, err := NewSieve(upper)
		require.NoError(t, err)

		got := collect(s, lower)
		a.Equal(naive(lower, upper), got)
	})

	t.Run("largeWindow", func(t *testing.T) {
		lower := uint64(1_000_000_000)
		upper := lower + 50_000

		s, err := NewSieve(upper)
		require.NoError(t, err)

		a.Equal(naive(lower, upper), collect(s, lower))
	})
}

func TestStrictlyAscending(t *testing.T) {
	s, err := NewSieve(2*segmentSize*2 + 77)
	require.NoError(t, err)

	prev := uint64(0)
	it := s.From(0)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		if p <= prev {
			t.Fatalf("%d after %d", p, prev)
		}
		prev = p
	}
}

func TestCount(t *testing.T) {
	a := assert.New(t)

	s, err := NewSieve(1_000_000)
	require.NoError(t, err)

	a.Equal(uint64(78498), s.Count(0))
	a.Equal(uint64(78498-6), s.Count(16))
}

func TestBasePrimes(t *testing.T) {
	a := assert.New(t)

	s, err := NewSieve(100)
	require.NoError(t, err)

	a.Equal([]uint64{2, 3, 5, 7}, s.BasePrimes())
	a.Equal(uint64(100), s.Upper())

	_, err = NewSieve(MaxUpper + 1)
	a.ErrorIs(err, ErrUpperTooLarge)
}

func TestEach(t *testing.T) {
	a := assert.New(t)

	s, err := NewSieve(100)
	require.NoError(t, err)

	var got []uint64
	a.NoError(s.Each(context.Background(), 90, func(p uint64) { got = append(got, p) }))
	a.Equal([]uint64{97}, got)

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := s.Each(ctx, 0, func(uint64) { calls++ })
		a.ErrorIs(err, context.Canceled)
		a.Zero(calls)
	})

	t.Run("cancelledBetweenSegments", func(t *testing.T) {
		big, err := NewSieve(4 * 2 * segmentSize)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var last uint64
		err = big.Each(ctx, 0, func(p uint64) {
			last = p
			cancel()
		})
		a.ErrorIs(err, context.Canceled)
		a.Less(last, uint64(2*segmentSize+3))
	})
}

func BenchmarkSieve(b *testing.B) {
	s, err := NewSieve(1 << 26)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Count(1 << 25)
	}
}
