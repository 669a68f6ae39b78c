package electro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ChargeSpec is the plain {x, y, z, q} record callers build a set from.
// Q is in coulombs and positions are in metres.
type ChargeSpec struct {
	X, Y, Z float64
	Q       float64
}

// Charge is a validated point charge. ID is its index in the input order.
type Charge struct {
	ID       int
	Position r3.Vec
	Q        float64
}

// Sign returns +1 for positive charges and -1 for negative ones.
func (c Charge) Sign() float64 {
	if c.Q < 0 {
		return -1
	}
	return 1
}

// ChargeSet is an ordered, immutable collection of point charges.
type ChargeSet struct {
	charges []Charge
}

// NewChargeSet validates specs and assigns ids in input order. It fails with
// an *InvalidChargeError for an empty list or a zero or non-finite value, and
// with a *CoincidentChargesError when two positions are closer than
// SingularRadius.
func NewChargeSet(specs []ChargeSpec) (*ChargeSet, error) {
	if len(specs) == 0 {
		return nil, &InvalidChargeError{Index: -1, Reason: "empty charge list"}
	}

	charges := make([]Charge, len(specs))
	for i, s := range specs {
		if !finite(s.X) || !finite(s.Y) || !finite(s.Z) {
			return nil, &InvalidChargeError{Index: i, Reason: "non-finite position"}
		}
		if !finite(s.Q) {
			return nil, &InvalidChargeError{Index: i, Reason: "non-finite magnitude"}
		}
		if s.Q == 0 {
			return nil, &InvalidChargeError{Index: i, Reason: "zero magnitude"}
		}
		charges[i] = Charge{ID: i, Position: r3.Vec{X: s.X, Y: s.Y, Z: s.Z}, Q: s.Q}
	}

	for i := range charges {
		for j := i + 1; j < len(charges); j++ {
			if r3.Norm(r3.Sub(charges[i].Position, charges[j].Position)) < SingularRadius {
				return nil, &CoincidentChargesError{I: i, J: j, Position: charges[i].Position}
			}
		}
	}

	return &ChargeSet{charges: charges}, nil
}

// MustChargeSet is like NewChargeSet but panics on error. Intended for
// presets and tests.
func MustChargeSet(specs ...ChargeSpec) *ChargeSet {
	cs, err := NewChargeSet(specs)
	if err != nil {
		panic(err)
	}
	return cs
}

func (cs *ChargeSet) Len() int { return len(cs.charges) }

// At returns the i-th charge. It panics if i is out of range, like a slice.
func (cs *ChargeSet) At(i int) Charge { return cs.charges[i] }

// All returns a copy of the charges.
func (cs *ChargeSet) All() []Charge {
	out := make([]Charge, len(cs.charges))
	copy(out, cs.charges)
	return out
}

// Index returns the position within the set of the charge with the given
// id, or -1.
func (cs *ChargeSet) Index(id int) int {
	for i, c := range cs.charges {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (cs *ChargeSet) Positions() []r3.Vec {
	out := make([]r3.Vec, len(cs.charges))
	for i, c := range cs.charges {
		out[i] = c.Position
	}
	return out
}

// TotalCharge is the algebraic sum of all charges in coulombs.
func (cs *ChargeSet) TotalCharge() float64 {
	sum := 0.0
	for _, c := range cs.charges {
		sum += c.Q
	}
	return sum
}

// Bounds returns the tightest box containing every charge. Callers use it to
// size a visualization domain; the solvers never depend on it.
func (cs *ChargeSet) Bounds() Bounds {
	b := Bounds{Min: cs.charges[0].Position, Max: cs.charges[0].Position}
	for _, c := range cs.charges[1:] {
		p := c.Position
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// Without returns the set minus the i-th charge. Ids of the remaining charges are
// preserved, so results still refer to the original indices. It returns
// ErrChargeIndex for a bad index and ErrTooFewCharges when nothing would remain.
func (cs *ChargeSet) Without(i int) (*ChargeSet, error) {
	if i < 0 || i >= len(cs.charges) {
		return nil, ErrChargeIndex
	}
	if len(cs.charges) < 2 {
		return nil, ErrTooFewCharges
	}
	rest := make([]Charge, 0, len(cs.charges)-1)
	for j, c := range cs.charges {
		if j != i {
			rest = append(rest, c)
		}
	}
	return &ChargeSet{charges: rest}, nil
}

// Nearest returns the index within the set of the charge closest to p and
// its distance.
func (cs *ChargeSet) Nearest(p r3.Vec) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, c := range cs.charges {
		if d := r3.Norm(r3.Sub(p, c.Position)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinite reports whether every component of v is finite.
func IsFinite(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
