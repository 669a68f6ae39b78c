package electro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the vector an integrator advances. Field-line tracing uses
// three-component states holding a position.
type State []float64

// StateOf packs a vector into a three-component state.
func StateOf(v r3.Vec) State {
	return State{v.X, v.Y, v.Z}
}

// Vec unpacks the first three components.
func (s State) Vec() r3.Vec {
	return r3.Vec{X: s[0], Y: s[1], Z: s[2]}
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

// System is an autonomous or time-dependent ODE dx/ds = f(x, s).
type System interface {
	Derive(x State, s float64) State
	StateDim() int
}

// Integrator advances a System by one step of size ds.
type Integrator interface {
	Step(sys System, x State, s, ds float64) State
}

// AdaptiveIntegrator also proposes the next step size for a tolerance.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, s, ds, tol float64) (State, float64, error)
}
