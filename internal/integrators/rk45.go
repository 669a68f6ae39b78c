package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/chargefield/internal/electro"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince embedded pair. StepAdaptive returns the
// fifth-order solution and a step size proposal for the next call. A step
// over tolerance still returns both, wrapped with ErrStepRejected, so the
// caller decides whether to retry with the smaller step.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(sys electro.System, x electro.State, s, ds float64) electro.State {
	next, _, _ := r.StepAdaptive(sys, x, s, ds, 1e-6)
	return next
}

// combine returns x + ds * Σ w[i]*k[i].
func combine(x electro.State, ds float64, w []float64, k []electro.State) electro.State {
	out := make(electro.State, len(x))
	for i := range x {
		acc := 0.0
		for j, wj := range w {
			if wj != 0 {
				acc += wj * k[j][i]
			}
		}
		out[i] = x[i] + ds*acc
	}
	return out
}

func (r *RK45) StepAdaptive(sys electro.System, x electro.State, s, ds, tol float64) (electro.State, float64, error) {
	if tol <= 0 {
		return nil, ds, fmt.Errorf("rk45 tolerance %g: %w", tol, electro.ErrInvalidParams)
	}
	k := make([]electro.State, 7)

	k[0] = sys.Derive(x, s)
	k[1] = sys.Derive(combine(x, ds, []float64{b21}, k), s+a2*ds)
	k[2] = sys.Derive(combine(x, ds, []float64{b31, b32}, k), s+a3*ds)
	k[3] = sys.Derive(combine(x, ds, []float64{b41, b42, b43}, k), s+a4*ds)
	k[4] = sys.Derive(combine(x, ds, []float64{b51, b52, b53, b54}, k), s+a5*ds)
	k[5] = sys.Derive(combine(x, ds, []float64{b61, b62, b63, b64, b65}, k), s+ds)

	next := combine(x, ds, []float64{c1, 0, c3, c4, c5, c6}, k)
	if !next.IsValid() {
		return next, ds, fmt.Errorf("rk45 step: %w", electro.ErrNonFinite)
	}
	k[6] = sys.Derive(next, s+ds)

	errMax := 0.0
	for i := range x {
		errEst := ds * (dc1*k[0][i] + dc3*k[2][i] + dc4*k[3][i] + dc5*k[4][i] + dc6*k[5][i] + dc7*k[6][i])
		scale := math.Abs(x[i]) + math.Abs(ds*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dsNew float64
	switch {
	case errRatio > 1:
		dsNew = ds * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		return next, dsNew, fmt.Errorf("rk45 error ratio %.3g: %w", errRatio, electro.ErrStepRejected)
	case errRatio > 0:
		dsNew = ds * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		dsNew = ds * r.maxScale
	}

	return next, dsNew, nil
}
