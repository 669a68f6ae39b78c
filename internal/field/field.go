// Package field evaluates the superposed electric field, potential and
// test-charge force of a charge set.
//
// Every function is exact superposition over the charges; nothing is cached
// between calls. Points within electro.SingularRadius of a charge yield an
// *electro.SingularFieldError from every entry point.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/spatial/r3"
)

// At returns the electric field (N/C) at p.
func At(cs *electro.ChargeSet, p r3.Vec) (r3.Vec, error) {
	if !electro.IsFinite(p) {
		return r3.Vec{}, fmt.Errorf("field point: %w", electro.ErrNonFinite)
	}
	var e r3.Vec
	for i := 0; i < cs.Len(); i++ {
		c := cs.At(i)
		r := r3.Sub(p, c.Position)
		d := r3.Norm(r)
		if d < electro.SingularRadius {
			return r3.Vec{}, &electro.SingularFieldError{Point: p, Charge: c.ID, Distance: d}
		}
		e = r3.Add(e, r3.Scale(electro.CoulombK*c.Q/(d*d*d), r))
	}
	return e, nil
}

// ForceAt returns the force (N) on a test charge q (C) placed at p.
func ForceAt(p r3.Vec, q float64, cs *electro.ChargeSet) (r3.Vec, error) {
	e, err := At(cs, p)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Scale(q, e), nil
}

// PotentialAt returns the electric potential (V) at p, zero at infinity.
func PotentialAt(cs *electro.ChargeSet, p r3.Vec) (float64, error) {
	if !electro.IsFinite(p) {
		return 0, fmt.Errorf("potential point: %w", electro.ErrNonFinite)
	}
	v := 0.0
	for i := 0; i < cs.Len(); i++ {
		c := cs.At(i)
		d := r3.Norm(r3.Sub(p, c.Position))
		if d < electro.SingularRadius {
			return 0, &electro.SingularFieldError{Point: p, Charge: c.ID, Distance: d}
		}
		v += electro.CoulombK * c.Q / d
	}
	return v, nil
}

// Contribution is the field of a single charge at a point.
type Contribution struct {
	Charge int
	Field  r3.Vec
}

// Contributions returns each charge's own field at p, in id order. Their
// vector sum is At(cs, p).
func Contributions(cs *electro.ChargeSet, p r3.Vec) ([]Contribution, error) {
	if !electro.IsFinite(p) {
		return nil, fmt.Errorf("field point: %w", electro.ErrNonFinite)
	}
	out := make([]Contribution, cs.Len())
	for i := 0; i < cs.Len(); i++ {
		c := cs.At(i)
		r := r3.Sub(p, c.Position)
		d := r3.Norm(r)
		if d < electro.SingularRadius {
			return nil, &electro.SingularFieldError{Point: p, Charge: c.ID, Distance: d}
		}
		out[i] = Contribution{Charge: c.ID, Field: r3.Scale(electro.CoulombK*c.Q/(d*d*d), r)}
	}
	return out, nil
}

// Sample evaluates field, magnitude and potential at p.
func Sample(cs *electro.ChargeSet, p r3.Vec) (electro.FieldSample, error) {
	e, err := At(cs, p)
	if err != nil {
		return electro.FieldSample{}, err
	}
	v, err := PotentialAt(cs, p)
	if err != nil {
		return electro.FieldSample{}, err
	}
	mag := r3.Norm(e)
	if math.IsInf(mag, 0) || math.IsNaN(mag) {
		return electro.FieldSample{}, fmt.Errorf("field magnitude at (%g, %g, %g): %w", p.X, p.Y, p.Z, electro.ErrNonFinite)
	}
	return electro.FieldSample{Point: p, Vector: e, Magnitude: mag, Potential: v}, nil
}

// Profile samples n evenly spaced points on the segment from a to b.
// Points that coincide with a charge are skipped.
func Profile(cs *electro.ChargeSet, a, b r3.Vec, n int) ([]electro.FieldSample, error) {
	if n < 2 {
		return nil, fmt.Errorf("profile needs at least 2 points, got %d: %w", n, electro.ErrInvalidParams)
	}
	if !electro.IsFinite(a) || !electro.IsFinite(b) {
		return nil, fmt.Errorf("profile endpoints: %w", electro.ErrNonFinite)
	}
	out := make([]electro.FieldSample, 0, n)
	d := r3.Sub(b, a)
	for i := 0; i < n; i++ {
		p := r3.Add(a, r3.Scale(float64(i)/float64(n-1), d))
		s, err := Sample(cs, p)
		if errors.Is(err, electro.ErrSingularField) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
