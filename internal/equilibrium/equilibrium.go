// Package equilibrium locates points where the net electrostatic force on a
// target vanishes.
//
// The target is either a notional test charge in the field of the whole set,
// or one of the set's own charges moving in the field of the others. With
// exactly two sources the zero-field point has a closed form on the line
// joining them; otherwise a damped Newton iteration is used. Failure to
// converge is reported through Status, not as an error.
package equilibrium

import (
	"fmt"
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	MethodAnalytic  = "analytic"
	MethodBisection = "bisection"
	MethodNewton    = "newton"
)

// Target selects what is being balanced. Charge is -1 for a test charge,
// otherwise the index of the charge that moves.
type Target struct {
	Charge int
}

func TestCharge() Target    { return Target{Charge: -1} }
func OfCharge(i int) Target { return Target{Charge: i} }

func (t Target) String() string {
	if t.Charge < 0 {
		return "test charge"
	}
	return fmt.Sprintf("charge %d", t.Charge)
}

// Options tunes the search. Tolerance is on the net force magnitude in
// newtons; TestCharge is the coulomb value of the notional test charge.
type Options struct {
	Tolerance     float64
	MaxIterations int
	TestCharge    float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance:     1e-6,
		MaxIterations: 100,
		TestCharge:    1,
	}
}

func (o Options) validate() error {
	switch {
	case !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0):
		return fmt.Errorf("tolerance %g: %w", o.Tolerance, electro.ErrInvalidParams)
	case o.MaxIterations <= 0:
		return fmt.Errorf("max iterations %d: %w", o.MaxIterations, electro.ErrInvalidParams)
	case o.TestCharge == 0 || math.IsNaN(o.TestCharge) || math.IsInf(o.TestCharge, 0):
		return fmt.Errorf("test charge %g: %w", o.TestCharge, electro.ErrInvalidParams)
	}
	return nil
}

// problem is the force on the target as a function of its position.
type problem struct {
	sources *electro.ChargeSet
	q       float64
	opts    Options
	region  electro.Bounds
}

// searchPad scales the padding around the sources that iterates may not
// leave. The field decays to zero at infinity, so an unbounded search would
// report convergence far away from every charge.
const searchPad = 10

func newProblem(cs *electro.ChargeSet, target Target, opts Options) (*problem, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p := &problem{sources: cs, q: opts.TestCharge, opts: opts}
	if target.Charge >= 0 {
		if target.Charge >= cs.Len() {
			return nil, fmt.Errorf("target %d of %d: %w", target.Charge, cs.Len(), electro.ErrChargeIndex)
		}
		rest, err := cs.Without(target.Charge)
		if err != nil {
			return nil, err
		}
		p.sources, p.q = rest, cs.At(target.Charge).Q
	}
	if p.sources.Len() < 2 {
		return nil, fmt.Errorf("%d field sources: %w", p.sources.Len(), electro.ErrTooFewCharges)
	}
	b := p.sources.Bounds()
	p.region = b.Pad(searchPad * math.Max(b.Diagonal(), 1))
	return p, nil
}

// force returns the net force on the target at x. Points on a source or
// otherwise unusable come back with ok false.
func (p *problem) force(x r3.Vec) (r3.Vec, bool) {
	e, err := field.At(p.sources, x)
	if err != nil {
		return r3.Vec{}, false
	}
	f := r3.Scale(p.q, e)
	if !electro.IsFinite(f) {
		return r3.Vec{}, false
	}
	return f, true
}

func (p *problem) residual(x r3.Vec) float64 {
	f, ok := p.force(x)
	if !ok {
		return math.Inf(1)
	}
	return r3.Norm(f)
}

func (p *problem) result(x r3.Vec, iters int, method string) electro.EquilibriumPoint {
	res := p.residual(x)
	status := electro.NotConverged
	if res < p.opts.Tolerance {
		status = electro.Converged
	}
	return electro.EquilibriumPoint{
		Point:      x,
		Residual:   res,
		Iterations: iters,
		Status:     status,
		Method:     method,
	}
}

// Find searches for an equilibrium of target starting from guess. With two
// field sources the guess is replaced by the closed-form point whenever one
// exists.
func Find(cs *electro.ChargeSet, target Target, guess r3.Vec, opts Options) (electro.EquilibriumPoint, error) {
	p, err := newProblem(cs, target, opts)
	if err != nil {
		return electro.EquilibriumPoint{}, err
	}
	if !electro.IsFinite(guess) {
		return electro.EquilibriumPoint{}, fmt.Errorf("initial guess: %w", electro.ErrNonFinite)
	}
	return p.solve(guess), nil
}

func (p *problem) solve(guess r3.Vec) electro.EquilibriumPoint {
	if p.sources.Len() == 2 {
		if pt, ok := p.twoSource(); ok {
			return pt
		}
	}
	return p.newton(guess, MethodNewton)
}
