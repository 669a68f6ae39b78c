package equilibrium

import (
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/spatial/r3"
)

// axialPoint returns the zero-field point on the line through two charges as
// the parameter s along a->b. ok is false for equal and opposite charges,
// which have no finite zero.
func axialPoint(qa, qb float64) (s float64, ok bool) {
	ra, rb := math.Sqrt(math.Abs(qa)), math.Sqrt(math.Abs(qb))
	if qa*qb > 0 {
		return ra / (ra + rb), true
	}
	if ra == rb {
		return 0, false
	}
	return ra / (ra - rb), true
}

// twoSource handles the two-source case. Like charges are refined by
// bisection on the segment, unlike charges by Newton from the closed form.
func (p *problem) twoSource() (electro.EquilibriumPoint, bool) {
	a, b := p.sources.At(0), p.sources.At(1)
	s, ok := axialPoint(a.Q, b.Q)
	if !ok {
		return electro.EquilibriumPoint{}, false
	}
	ab := r3.Sub(b.Position, a.Position)
	x := r3.Add(a.Position, r3.Scale(s, ab))

	// a nearly balanced unlike pair puts the zero outside the search region,
	// where Newton cannot refine it
	if p.residual(x) < p.opts.Tolerance || !p.region.Contains(x) {
		return p.result(x, 0, MethodAnalytic), true
	}
	if a.Q*b.Q < 0 {
		return p.newton(x, MethodAnalytic+"+"+MethodNewton), true
	}
	return p.bisect(a.Position, ab), true
}

// bisect finds the sign change of the axial field component strictly
// between two like charges.
func (p *problem) bisect(origin, ab r3.Vec) electro.EquilibriumPoint {
	u := r3.Unit(ab)
	axial := func(t float64) float64 {
		f, ok := p.force(r3.Add(origin, r3.Scale(t, ab)))
		if !ok {
			return math.NaN()
		}
		return r3.Dot(f, u)
	}

	margin := 2 * electro.SingularRadius / r3.Norm(ab)
	lo, hi := margin, 1-margin
	loSign := math.Signbit(axial(lo))

	iters := 0
	for ; iters < p.opts.MaxIterations && hi-lo > 1e-15; iters++ {
		mid := 0.5 * (lo + hi)
		g := axial(mid)
		if g == 0 {
			lo, hi = mid, mid
			break
		}
		if math.Signbit(g) == loSign {
			lo = mid
		} else {
			hi = mid
		}
	}
	return p.result(r3.Add(origin, r3.Scale(0.5*(lo+hi), ab)), iters, MethodBisection)
}
