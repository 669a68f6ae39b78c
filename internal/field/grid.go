package field

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// GridSpec describes a lattice of evaluation points. Samples whose
// magnitude falls outside [MinMagnitude, MaxMagnitude] are dropped; a zero
// MaxMagnitude means no upper limit.
type GridSpec struct {
	Bounds       electro.Bounds
	N            int
	MinMagnitude float64
	MaxMagnitude float64
}

// DefaultGridSpec mirrors the cone-plot lattice: 6 nodes per axis over
// [-3, 3]³, keeping magnitudes between 1e-3 and 1e8 N/C.
func DefaultGridSpec() GridSpec {
	return GridSpec{
		Bounds:       electro.Cube(3),
		N:            6,
		MinMagnitude: 1e-3,
		MaxMagnitude: 1e8,
	}
}

func (g GridSpec) validate() error {
	if g.N < 1 {
		return fmt.Errorf("grid size %d: %w", g.N, electro.ErrInvalidParams)
	}
	if !g.Bounds.Valid() {
		return fmt.Errorf("grid bounds: %w", electro.ErrInvalidParams)
	}
	if g.MinMagnitude < 0 || g.MaxMagnitude < 0 {
		return fmt.Errorf("grid magnitude filter: %w", electro.ErrInvalidParams)
	}
	return nil
}

// Grid evaluates the field on every lattice node, in x-major order. Nodes
// that coincide with a charge or fail the magnitude filter are skipped.
func Grid(ctx context.Context, cs *electro.ChargeSet, spec GridSpec) ([]electro.FieldSample, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	nodes := spec.Bounds.Grid(spec.N)
	samples := make([]electro.FieldSample, len(nodes))
	keep := make([]bool, len(nodes))

	electro.ParallelFor(len(nodes), 64, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			s, err := Sample(cs, nodes[i])
			if err != nil {
				continue
			}
			if s.Magnitude < spec.MinMagnitude {
				continue
			}
			if spec.MaxMagnitude > 0 && s.Magnitude > spec.MaxMagnitude {
				continue
			}
			samples[i], keep[i] = s, true
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]electro.FieldSample, 0, len(nodes))
	for i, ok := range keep {
		if ok {
			out = append(out, samples[i])
		}
	}
	return out, nil
}

// Energy estimates the electrostatic field energy ε₀/2 ∫|E|² dV inside
// bounds as a sum over the n×n×n lattice nodes. Nodes on a charge are
// skipped, so the estimate excludes the divergent self-energy; it is an
// auxiliary figure, not the configuration energy.
func Energy(ctx context.Context, cs *electro.ChargeSet, bounds electro.Bounds, n int) (float64, error) {
	if n < 2 {
		return 0, fmt.Errorf("energy grid size %d: %w", n, electro.ErrInvalidParams)
	}
	if !bounds.Valid() {
		return 0, fmt.Errorf("energy bounds: %w", electro.ErrInvalidParams)
	}
	nodes := bounds.Grid(n)
	densities := make([]float64, len(nodes))

	electro.ParallelFor(len(nodes), 256, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			e, err := At(cs, nodes[i])
			if err != nil {
				continue
			}
			densities[i] = r3.Norm2(e)
		}
	})
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	u := 0.5 * electro.Epsilon0 * floats.Sum(densities) * bounds.CellVolume(n)
	if math.IsInf(u, 0) || math.IsNaN(u) {
		return 0, fmt.Errorf("field energy: %w", electro.ErrNonFinite)
	}
	return u, nil
}
