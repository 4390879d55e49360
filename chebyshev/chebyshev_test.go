package chebyshev

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmallDegrees(t *testing.T) {
	a := assert.New(t)
	g := NewGenerator()

	t.Run("firstKind", func(t *testing.T) {
		want := map[int][]int64{
			0: {1},
			1: {0, 1},
			2: {-1, 0, 2},
			3: {0, -3, 0, 4},
			4: {1, 0, -8, 0, 8},
			5: {0, 5, 0, -20, 0, 16},
		}

		for n, c := range want {
			got, ok := g.T(n).Int64s()
			a.True(ok)
			a.Equal(c, got, "T_%d", n)
		}
	})

	t.Run("secondKind", func(t *testing.T) {
		want := map[int][]int64{
			0: {1},
			1: {0, 2},
			2: {-1, 0, 4},
			3: {0, -4, 0, 8},
			4: {1, 0, -12, 0, 16},
			5: {0, 6, 0, -32, 0, 32},
			6: {-1, 0, 24, 0, -80, 0, 64},
		}

		for n, c := range want {
			got, ok := g.U(n).Int64s()
			a.True(ok)
			a.Equal(c, got, "U_%d", n)
		}
	})
}

func TestIdentitiesAtOne(t *testing.T) {
	a := assert.New(t)
	g := NewGenerator()
	one := big.NewInt(1)

	for n := 0; n <= 40; n++ {
		a.Equal(int64(1), g.T(n).Eval(one).Int64(), "T_%d(1)", n)
		a.Equal(int64(n+1), g.U(n).Eval(one).Int64(), "U_%d(1)", n)
	}
}

// U_n also satisfies the three term recurrence U_n = 2x*U_{n-1} - U_{n-2}.
func TestSecondKindThreeTermRecurrence(t *testing.T) {
	a := assert.New(t)
	g := NewGenerator()

	for n := 2; n <= 30; n++ {
		want := twoX.Mul(g.U(n - 1)).Sub(g.U(n - 2))
		a.True(want.Equals(g.U(n)), "U_%d", n)
	}
}

func TestMemo(t *testing.T) {
	a := assert.New(t)
	g := NewGenerator()

	p := g.U(12)
	a.Same(p, g.U(12))

	tn, un := g.Size()
	a.Equal(2, tn)
	a.Equal(13, un)

	g.Warm(20)
	tn, un = g.Size()
	a.Equal(21, tn)
	a.Equal(21, un)

	a.Panics(func() { g.T(-1) })
}

func TestConcurrentBuild(t *testing.T) {
	a := assert.New(t)
	g := NewGenerator()
	ref := NewGenerator()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			g.T(n + 10)
			g.U(n + 10)
		}(i)
	}
	wg.Wait()

	for n := 0; n < 26; n++ {
		a.True(ref.T(n).Equals(g.T(n)))
		a.True(ref.U(n).Equals(g.U(n)))
	}
}

func BenchmarkSecondKind(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		NewGenerator().U(512)
	}
}
