// Package tracer integrates electric field lines through a charge set.
//
// A line solves dP/ds = ±E(P)/|E(P)|: the arclength parameterization keeps
// the geometric step constant whatever the local field strength. Stepping is
// done by an integrator from the integrators package (RK4 by default, or the
// Dormand-Prince pair when adaptive stepping is on).
//
// Each step is classified in priority order: absorbed by a charge, left the
// domain, step budget exhausted, field too weak to follow or no progress.
// Every line is therefore finite, no NaN point is ever emitted and no point
// repeats its predecessor.
package tracer

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/field"
	"github.com/san-kum/chargefield/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params controls a single trace. Origin is the id of the charge the seed
// belongs to (-1 for none); that charge does not absorb the line until the
// line has first left its capture radius.
type Params struct {
	Direction     electro.Direction
	StepSize      float64
	MaxSteps      int
	Bounds        electro.Bounds
	CaptureRadius float64
	MinField      float64
	Origin        int
	Integrator    string

	// Adaptive switches to Dormand-Prince stepping; the proposed step is
	// clamped into [MinStep, MaxStep].
	Adaptive  bool
	Tolerance float64
	MinStep   float64
	MaxStep   float64
}

func DefaultParams() Params {
	return Params{
		Direction:     electro.Forward,
		StepSize:      0.05,
		MaxSteps:      500,
		Bounds:        electro.Cube(3),
		CaptureRadius: 0.05,
		MinField:      1e-6,
		Origin:        -1,
		Integrator:    "rk4",
		Tolerance:     1e-6,
		MinStep:       1e-4,
		MaxStep:       0.2,
	}
}

func (p Params) validate(cs *electro.ChargeSet) error {
	switch {
	case p.MaxSteps <= 0:
		return fmt.Errorf("max steps %d: %w", p.MaxSteps, electro.ErrInvalidParams)
	case !(p.StepSize > 0) || math.IsInf(p.StepSize, 0):
		return fmt.Errorf("step size %g: %w", p.StepSize, electro.ErrInvalidParams)
	case !p.Bounds.Valid():
		return fmt.Errorf("domain bounds: %w", electro.ErrInvalidParams)
	case !(p.CaptureRadius > 0):
		return fmt.Errorf("capture radius %g: %w", p.CaptureRadius, electro.ErrInvalidParams)
	case p.MinField < 0:
		return fmt.Errorf("min field %g: %w", p.MinField, electro.ErrInvalidParams)
	case p.Direction != electro.Forward && p.Direction != electro.Backward:
		return fmt.Errorf("direction %d: %w", int(p.Direction), electro.ErrInvalidParams)
	case p.Origin != -1 && cs.Index(p.Origin) < 0:
		return fmt.Errorf("origin %d: %w", p.Origin, electro.ErrChargeIndex)
	}
	if p.Adaptive {
		if !(p.Tolerance > 0) || !(p.MinStep > 0) || p.MaxStep < p.MinStep {
			return fmt.Errorf("adaptive step limits: %w", electro.ErrInvalidParams)
		}
	}
	return nil
}

// lineSystem is the normalized field seen as an ODE. A stage that lands on
// a charge or in a field-free spot records a fault instead of returning NaN.
type lineSystem struct {
	cs    *electro.ChargeSet
	sign  float64
	fault electro.Termination
}

func (l *lineSystem) StateDim() int { return 3 }

func (l *lineSystem) Derive(x electro.State, _ float64) electro.State {
	e, err := field.At(l.cs, x.Vec())
	if err != nil {
		if errors.Is(err, electro.ErrSingularField) {
			l.fault = electro.Absorbed
		} else {
			l.fault = electro.Stagnation
		}
		return electro.State{0, 0, 0}
	}
	n := r3.Norm(e)
	if n == 0 || math.IsInf(n, 0) {
		l.fault = electro.Stagnation
		return electro.State{0, 0, 0}
	}
	return electro.StateOf(r3.Scale(l.sign/n, e))
}

// minProgress is the fraction of the step a point must move for the line
// to keep going.
const minProgress = 1e-3

type tracer struct {
	cs     *electro.ChargeSet
	params Params
	sys    *lineSystem
	integ  electro.Integrator
	armed  bool
}

// Trace follows the field line through seed. It returns a
// *electro.SingularFieldError when the seed coincides with a charge.
func Trace(cs *electro.ChargeSet, seed r3.Vec, p Params) (electro.FieldLine, error) {
	if err := p.validate(cs); err != nil {
		return electro.FieldLine{}, err
	}
	if !electro.IsFinite(seed) {
		return electro.FieldLine{}, fmt.Errorf("seed: %w", electro.ErrNonFinite)
	}
	if _, err := field.At(cs, seed); err != nil {
		return electro.FieldLine{}, err
	}

	integ, err := integrators.ByName(p.Integrator)
	if err != nil {
		return electro.FieldLine{}, err
	}
	if p.Adaptive {
		if _, ok := integ.(electro.AdaptiveIntegrator); !ok {
			integ = integrators.NewRK45()
		}
	}

	tr := &tracer{
		cs:     cs,
		params: p,
		sys:    &lineSystem{cs: cs, sign: float64(p.Direction)},
		integ:  integ,
	}
	return tr.run(seed), nil
}

func (tr *tracer) run(seed r3.Vec) electro.FieldLine {
	p := tr.params
	line := electro.FieldLine{
		Seed:      seed,
		Origin:    p.Origin,
		Direction: p.Direction,
		Points:    []r3.Vec{seed},
	}

	tr.armed = p.Origin < 0
	tr.arm(seed)
	if tr.absorbed(seed) {
		line.Reason = electro.Absorbed
		return line
	}
	if !p.Bounds.Contains(seed) {
		line.Reason = electro.OutOfBounds
		return line
	}

	cur := seed
	ds := p.StepSize
	s := 0.0
	for {
		if line.Steps >= p.MaxSteps {
			line.Reason = electro.MaxSteps
			return line
		}
		e, err := field.At(tr.cs, cur)
		if err != nil {
			line.Reason = electro.Absorbed
			return line
		}
		if r3.Norm(e) < p.MinField {
			line.Reason = electro.Stagnation
			return line
		}

		step := tr.limitStep(cur, ds)
		var next electro.State
		next, step, ds = tr.advance(cur, s, step, ds)
		if tr.sys.fault != 0 {
			line.Reason = tr.sys.fault
			return line
		}
		if !next.IsValid() {
			line.Reason = electro.Stagnation
			return line
		}

		nv := next.Vec()
		if tr.absorbed(nv) {
			line.Points = append(line.Points, nv)
			line.Steps++
			line.Length += r3.Norm(r3.Sub(nv, cur))
			line.Reason = electro.Absorbed
			return line
		}
		if !p.Bounds.Contains(nv) {
			line.Reason = electro.OutOfBounds
			return line
		}
		// stages cancelling across a null leave the point in place
		if r3.Norm(r3.Sub(nv, cur)) < minProgress*step {
			line.Reason = electro.Stagnation
			return line
		}

		line.Points = append(line.Points, nv)
		line.Steps++
		line.Length += r3.Norm(r3.Sub(nv, cur))
		s += step
		cur = nv
		tr.arm(cur)
	}
}

// advance takes one step of at most step and returns the new point, the
// step actually taken and the nominal step to use next. Adaptive steps over
// tolerance are retried with the proposed smaller step down to MinStep,
// where they are accepted as they are.
func (tr *tracer) advance(cur r3.Vec, s, step, nominal float64) (electro.State, float64, float64) {
	x := electro.StateOf(cur)
	p := tr.params
	if !p.Adaptive {
		return tr.integ.Step(tr.sys, x, s, step), step, nominal
	}

	adaptive := tr.integ.(electro.AdaptiveIntegrator)
	for {
		next, proposed, err := adaptive.StepAdaptive(tr.sys, x, s, step, p.Tolerance)
		if errors.Is(err, electro.ErrStepRejected) && step > p.MinStep && tr.sys.fault == 0 {
			step = math.Max(p.MinStep, proposed)
			continue
		}
		if err != nil && !errors.Is(err, electro.ErrStepRejected) {
			return electro.State{math.NaN(), math.NaN(), math.NaN()}, step, nominal
		}
		return next, step, math.Min(p.MaxStep, math.Max(p.MinStep, proposed))
	}
}

// limitStep shortens the step near charges so a line cannot jump over one.
func (tr *tracer) limitStep(cur r3.Vec, ds float64) float64 {
	_, d := tr.cs.Nearest(cur)
	limit := 0.5 * d
	if tr.params.Adaptive {
		limit = math.Max(limit, tr.params.MinStep)
	}
	return math.Min(ds, limit)
}

// arm starts letting the origin charge absorb the line once p is outside
// its capture radius.
func (tr *tracer) arm(p r3.Vec) {
	if tr.armed {
		return
	}
	origin := tr.cs.At(tr.cs.Index(tr.params.Origin))
	if r3.Norm(r3.Sub(p, origin.Position)) > tr.params.CaptureRadius {
		tr.armed = true
	}
}

// absorbed reports whether p is inside the capture radius of a charge. The
// origin charge is ignored until the line is armed.
func (tr *tracer) absorbed(p r3.Vec) bool {
	for i := 0; i < tr.cs.Len(); i++ {
		c := tr.cs.At(i)
		if c.ID == tr.params.Origin && !tr.armed {
			continue
		}
		if r3.Norm(r3.Sub(p, c.Position)) <= tr.params.CaptureRadius {
			return true
		}
	}
	return false
}
