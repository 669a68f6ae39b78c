package equilibrium

import (
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxHalvings = 40

// jacobian estimates dF/dx by central differences. The probe spacing stays
// well inside the distance to the nearest source.
func (p *problem) jacobian(x r3.Vec) (*mat.Dense, bool) {
	_, d := p.sources.Nearest(x)
	h := math.Min(1e-6*math.Max(1, r3.Norm(x)), 1e-3*d)

	axes := [3]r3.Vec{{X: h}, {Y: h}, {Z: h}}
	j := mat.NewDense(3, 3, nil)
	for c, dx := range axes {
		fp, ok := p.force(r3.Add(x, dx))
		if !ok {
			return nil, false
		}
		fm, ok := p.force(r3.Sub(x, dx))
		if !ok {
			return nil, false
		}
		col := r3.Scale(1/(2*h), r3.Sub(fp, fm))
		j.Set(0, c, col.X)
		j.Set(1, c, col.Y)
		j.Set(2, c, col.Z)
	}
	return j, true
}

// direction returns the Newton step for J·dx = -F, or the steepest descent
// direction of |F|² when J cannot be solved.
func direction(j *mat.Dense, f r3.Vec) r3.Vec {
	rhs := mat.NewVecDense(3, []float64{-f.X, -f.Y, -f.Z})
	var dx mat.VecDense
	if err := dx.SolveVec(j, rhs); err == nil {
		step := r3.Vec{X: dx.AtVec(0), Y: dx.AtVec(1), Z: dx.AtVec(2)}
		if electro.IsFinite(step) {
			return step
		}
	}

	var g mat.VecDense
	g.MulVec(j.T(), rhs)
	return r3.Vec{X: g.AtVec(0), Y: g.AtVec(1), Z: g.AtVec(2)}
}

// newton runs damped Newton from x0, clamped into the search region. Each
// step is capped at half the distance to the nearest source and halved until
// the residual drops without leaving the region. A step that cannot be made
// to reduce it ends the search.
func (p *problem) newton(x0 r3.Vec, method string) electro.EquilibriumPoint {
	x := p.region.Clamp(x0)
	res := p.residual(x)

	for it := 0; it < p.opts.MaxIterations; it++ {
		if res < p.opts.Tolerance {
			return p.result(x, it, method)
		}
		f, ok := p.force(x)
		if !ok {
			return p.result(x, it, method)
		}
		j, ok := p.jacobian(x)
		if !ok {
			return p.result(x, it, method)
		}

		step := direction(j, f)
		n := r3.Norm(step)
		if n == 0 {
			return p.result(x, it, method)
		}
		_, d := p.sources.Nearest(x)
		if limit := 0.5 * d; n > limit {
			step = r3.Scale(limit/n, step)
		}

		improved := false
		for h := 0; h < maxHalvings; h++ {
			next := r3.Add(x, step)
			if !p.region.Contains(next) {
				step = r3.Scale(0.5, step)
				continue
			}
			if r := p.residual(next); r < res {
				x, res, improved = next, r, true
				break
			}
			step = r3.Scale(0.5, step)
		}
		if !improved {
			return p.result(x, it+1, method)
		}
	}
	return p.result(x, p.opts.MaxIterations, method)
}
