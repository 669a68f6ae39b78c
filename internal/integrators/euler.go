package integrators

import "github.com/san-kum/chargefield/internal/electro"

// Euler is the explicit first-order stepper. Only useful as a baseline for
// comparing trace accuracy.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys electro.System, x electro.State, s, ds float64) electro.State {
	dx := sys.Derive(x, s)
	result := make(electro.State, len(x))
	for i := range x {
		result[i] = x[i] + ds*dx[i]
	}
	return result
}
