package integrators

import "github.com/san-kum/chargefield/internal/electro"

// RK4 is the classic fourth-order Runge-Kutta stepper. It reuses stage
// buffers between steps, so one instance must not be shared across goroutines.
type RK4 struct {
	k1, k2, k3, k4 electro.State
	scratch        electro.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(electro.State, n)
		r.k2 = make(electro.State, n)
		r.k3 = make(electro.State, n)
		r.k4 = make(electro.State, n)
		r.scratch = make(electro.State, n)
	}
}

// Step advances x by ds with stage weights (1, 2, 2, 1)/6.
func (r *RK4) Step(sys electro.System, x electro.State, s, ds float64) electro.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, s))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + ds*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, s+ds*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + ds*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, s+ds*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + ds*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, s+ds))

	result := make(electro.State, n)
	ds6 := ds / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + ds6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
