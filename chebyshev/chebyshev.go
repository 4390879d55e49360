// Package chebyshev builds Chebyshev polynomials of the first (T) and second (U)
// kind with exact integer coefficients.
package chebyshev

import (
	"sync"

	"github.com/jonathanmweiss/go-collide/exact"
)

var (
	twoX = exact.FromInt64s(0, 2)
	// 4x^2 - 2, used for U_k = U_{k-2}*(4x^2-2) - U_{k-4}.
	fourXSquaredMinusTwo = exact.FromInt64s(-2, 0, 4)
)

// Generator memoizes every degree it builds, and is safe for concurrent use.
// Returned polynomials are shared and must be treated as read-only.
type Generator struct {
	mu sync.RWMutex
	t  []*exact.Polynomial
	u  []*exact.Polynomial
}

func NewGenerator() *Generator {
	return &Generator{
		t: []*exact.Polynomial{
			exact.FromInt64s(1),
			exact.FromInt64s(0, 1),
		},
		u: []*exact.Polynomial{
			exact.FromInt64s(1),
			exact.FromInt64s(0, 2),
			exact.FromInt64s(-1, 0, 4),
			exact.FromInt64s(0, -4, 0, 8),
			exact.FromInt64s(1, 0, -12, 0, 16),
		},
	}
}

// T returns the first kind polynomial T_n.
// T_0 = 1, T_1 = x, T_n = 2x*T_{n-1} - T_{n-2}.
func (g *Generator) T(n int) *exact.Polynomial {
	checkDegree(n)

	g.mu.RLock()
	if n < len(g.t) {
		p := g.t[n]
		g.mu.RUnlock()

		return p
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k := len(g.t); k <= n; k++ {
		g.t = append(g.t, twoX.Mul(g.t[k-1]).Sub(g.t[k-2]))
	}

	return g.t[n]
}

// U returns the second kind polynomial U_n.
// U_0..U_4 are fixed, larger degrees use U_k = U_{k-2}*(4x^2-2) - U_{k-4}.
func (g *Generator) U(n int) *exact.Polynomial {
	checkDegree(n)

	g.mu.RLock()
	if n < len(g.u) {
		p := g.u[n]
		g.mu.RUnlock()

		return p
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k := len(g.u); k <= n; k++ {
		g.u = append(g.u, g.u[k-2].Mul(fourXSquaredMinusTwo).Sub(g.u[k-4]))
	}

	return g.u[n]
}

// Warm builds T and U up to degree n.
func (g *Generator) Warm(n int) {
	g.T(n)
	g.U(n)
}

// Size returns the number of memoized T and U polynomials.
func (g *Generator) Size() (t, u int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.t), len(g.u)
}

func checkDegree(n int) {
	if n < 0 {
		panic("chebyshev: negative degree")
	}
}
