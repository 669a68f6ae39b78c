// Package electro provides the core value types for electrostatic
// computations on point charges.
//
// The package defines the data shared by every solver in the module:
//
//   - [Charge] and [ChargeSet]: validated, immutable point-charge collections
//   - [FieldSample], [FieldLine], [ForceRecord], [EnergyResult],
//     [EquilibriumPoint]: results returned to callers
//   - [State], [System], [Integrator]: the ODE plumbing used to trace field lines
//   - [Bounds]: axis-aligned domain boxes
//
// # Example
//
//	cs, err := electro.NewChargeSet([]electro.ChargeSpec{
//	    {X: -1, Q: 1e-6},
//	    {X: 1, Q: -1e-6},
//	})
//	if err != nil {
//	    return err
//	}
//	e, _ := field.At(cs, r3.Vec{})
//
// # Thread Safety
//
// A ChargeSet is never mutated after construction and may be shared freely
// between goroutines. Integrators keep scratch buffers and must not be shared.
package electro
