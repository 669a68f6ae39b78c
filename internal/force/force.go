// Package force computes Coulomb forces and the potential energy of a charge
// configuration.
package force

import (
	"fmt"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

func checkSet(cs *electro.ChargeSet) error {
	if cs.Len() < 2 {
		return fmt.Errorf("%d charges: %w", cs.Len(), electro.ErrTooFewCharges)
	}
	return nil
}

// coulomb returns the force exerted by b on a and their separation.
func coulomb(a, b electro.Charge) (r3.Vec, float64, error) {
	r := r3.Sub(a.Position, b.Position)
	d := r3.Norm(r)
	if d < electro.SingularRadius {
		return r3.Vec{}, d, &electro.CoincidentChargesError{I: a.ID, J: b.ID, Position: a.Position}
	}
	return r3.Scale(electro.CoulombK*a.Q*b.Q/(d*d*d), r), d, nil
}

// Pairwise returns the force on I due to J for every ordered pair I != J,
// ordered by (I, J). Each pair is evaluated once; the (J, I) record carries
// exactly the negated force.
func Pairwise(cs *electro.ChargeSet) ([]electro.ForceRecord, error) {
	if err := checkSet(cs); err != nil {
		return nil, err
	}
	n := cs.Len()
	upper := make([][]electro.ForceRecord, n)
	for i := 0; i < n; i++ {
		upper[i] = make([]electro.ForceRecord, n)
		for j := i + 1; j < n; j++ {
			a, b := cs.At(i), cs.At(j)
			f, d, err := coulomb(a, b)
			if err != nil {
				return nil, err
			}
			upper[i][j] = electro.ForceRecord{I: a.ID, J: b.ID, Force: f, Magnitude: r3.Norm(f), Distance: d}
		}
	}

	out := make([]electro.ForceRecord, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i < j:
				out = append(out, upper[i][j])
			case i > j:
				r := upper[j][i]
				out = append(out, electro.ForceRecord{
					I:         r.J,
					J:         r.I,
					Force:     r3.Scale(-1, r.Force),
					Magnitude: r.Magnitude,
					Distance:  r.Distance,
				})
			}
		}
	}
	return out, nil
}

// NetAll returns the net force on every charge, indexed like the set.
func NetAll(cs *electro.ChargeSet) ([]r3.Vec, error) {
	pairs, err := Pairwise(cs)
	if err != nil {
		return nil, err
	}
	net := make([]r3.Vec, cs.Len())
	for _, p := range pairs {
		i := cs.Index(p.I)
		net[i] = r3.Add(net[i], p.Force)
	}
	return net, nil
}

// Net returns the net force on the i-th charge.
func Net(cs *electro.ChargeSet, i int) (r3.Vec, error) {
	if err := checkSet(cs); err != nil {
		return r3.Vec{}, err
	}
	if i < 0 || i >= cs.Len() {
		return r3.Vec{}, fmt.Errorf("charge %d of %d: %w", i, cs.Len(), electro.ErrChargeIndex)
	}
	target := cs.At(i)
	var f r3.Vec
	for j := 0; j < cs.Len(); j++ {
		if j == i {
			continue
		}
		fj, _, err := coulomb(target, cs.At(j))
		if err != nil {
			return r3.Vec{}, err
		}
		f = r3.Add(f, fj)
	}
	return f, nil
}

// TotalEnergy returns the configuration potential energy Σ k qi qj / rij
// over unordered pairs, together with each pair's term.
func TotalEnergy(cs *electro.ChargeSet) (electro.EnergyResult, error) {
	if err := checkSet(cs); err != nil {
		return electro.EnergyResult{}, err
	}
	n := cs.Len()
	pairs := make([]electro.PairEnergy, 0, n*(n-1)/2)
	terms := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := cs.At(i), cs.At(j)
			d := r3.Norm(r3.Sub(a.Position, b.Position))
			if d < electro.SingularRadius {
				return electro.EnergyResult{}, &electro.CoincidentChargesError{I: a.ID, J: b.ID, Position: a.Position}
			}
			u := electro.CoulombK * a.Q * b.Q / d
			pairs = append(pairs, electro.PairEnergy{I: a.ID, J: b.ID, Distance: d, Energy: u})
			terms = append(terms, u)
		}
	}
	return electro.EnergyResult{Total: floats.Sum(terms), Pairs: pairs}, nil
}
