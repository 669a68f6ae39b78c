package equilibrium

import (
	"context"
	"fmt"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scan runs Find from every node of an n×n×n lattice over bounds and returns
// the distinct converged equilibria, in lattice order of first discovery.
// Points closer than a thousandth of the bounds diagonal are merged. Nodes
// that sit on a charge are skipped. Two sources with a closed-form zero are
// solved once, whatever the lattice.
func Scan(ctx context.Context, cs *electro.ChargeSet, target Target, bounds electro.Bounds, n int, opts Options) ([]electro.EquilibriumPoint, error) {
	p, err := newProblem(cs, target, opts)
	if err != nil {
		return nil, err
	}
	if n < 1 || !bounds.Valid() {
		return nil, fmt.Errorf("scan lattice %d over %v: %w", n, bounds, electro.ErrInvalidParams)
	}

	if p.sources.Len() == 2 {
		if _, ok := axialPoint(p.sources.At(0).Q, p.sources.At(1).Q); ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			// the closed form ignores the guess
			pt := p.solve(bounds.Center())
			if pt.Status != electro.Converged {
				return nil, nil
			}
			return []electro.EquilibriumPoint{pt}, nil
		}
	}

	starts := bounds.Grid(n)
	found := make([]electro.EquilibriumPoint, len(starts))
	ok := make([]bool, len(starts))
	electro.ParallelFor(len(starts), 4, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			if _, d := p.sources.Nearest(starts[i]); d < electro.SingularRadius {
				continue
			}
			found[i] = p.solve(starts[i])
			ok[i] = found[i].Status == electro.Converged
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merge := 1e-3 * bounds.Diagonal()
	var out []electro.EquilibriumPoint
	for i, pt := range found {
		if !ok[i] {
			continue
		}
		if duplicate(out, pt.Point, merge) {
			continue
		}
		out = append(out, pt)
	}
	return out, nil
}

func duplicate(pts []electro.EquilibriumPoint, x r3.Vec, radius float64) bool {
	for _, q := range pts {
		if r3.Norm(r3.Sub(q.Point, x)) <= radius {
			return true
		}
	}
	return false
}
