package force

import (
	"fmt"
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// EquilibriumThreshold is the net force (N) below which a test charge is
// reported as being in equilibrium.
const EquilibriumThreshold = 1e-6

// SourceForce is the force a single source charge exerts on the test charge.
type SourceForce struct {
	Charge    int
	Force     r3.Vec
	Magnitude float64
	Distance  float64
}

// Breakdown describes the force on a test charge placed in the field.
// Angles are in degrees: Azimuth in the xy-plane from +x, Elevation above it.
type Breakdown struct {
	Point           r3.Vec
	Q               float64
	Sources         []SourceForce
	Net             r3.Vec
	Magnitude       float64
	Azimuth         float64
	Elevation       float64
	PotentialEnergy float64
	Equilibrium     bool
}

// OnTestCharge places a test charge q at p and resolves the force from each
// source charge.
func OnTestCharge(cs *electro.ChargeSet, q float64, p r3.Vec) (Breakdown, error) {
	if math.IsNaN(q) || math.IsInf(q, 0) || q == 0 {
		return Breakdown{}, fmt.Errorf("test charge %g: %w", q, electro.ErrInvalidParams)
	}
	contribs, err := field.Contributions(cs, p)
	if err != nil {
		return Breakdown{}, err
	}
	v, err := field.PotentialAt(cs, p)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{Point: p, Q: q, Sources: make([]SourceForce, len(contribs))}
	for i, c := range contribs {
		f := r3.Scale(q, c.Field)
		b.Sources[i] = SourceForce{
			Charge:    c.Charge,
			Force:     f,
			Magnitude: r3.Norm(f),
			Distance:  r3.Norm(r3.Sub(p, cs.At(cs.Index(c.Charge)).Position)),
		}
		b.Net = r3.Add(b.Net, f)
	}
	b.Magnitude = r3.Norm(b.Net)
	b.Azimuth = math.Atan2(b.Net.Y, b.Net.X) * 180 / math.Pi
	b.Elevation = math.Atan2(b.Net.Z, math.Hypot(b.Net.X, b.Net.Y)) * 180 / math.Pi
	b.PotentialEnergy = q * v
	b.Equilibrium = b.Magnitude < EquilibriumThreshold
	return b, nil
}
