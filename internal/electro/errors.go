package electro

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Domain errors for electrostatic computations.
var (
	// ErrInvalidCharge indicates a charge with zero or non-finite magnitude or position.
	ErrInvalidCharge = errors.New("electro: invalid charge")

	// ErrSingularField indicates an evaluation point that coincides with a charge.
	ErrSingularField = errors.New("electro: field is singular at point")

	// ErrCoincidentCharges indicates two charges sharing a position.
	ErrCoincidentCharges = errors.New("electro: coincident charges")

	// ErrTooFewCharges indicates a computation that needs more charges than given.
	ErrTooFewCharges = errors.New("electro: too few charges")

	// ErrChargeIndex indicates a charge index outside the set.
	ErrChargeIndex = errors.New("electro: charge index out of range")

	// ErrInvalidParams indicates solver parameters outside their valid range.
	ErrInvalidParams = errors.New("electro: invalid parameters")

	// ErrNonFinite indicates a NaN or Inf input coordinate.
	ErrNonFinite = errors.New("electro: non-finite value")

	// ErrStepRejected indicates an adaptive step whose error estimate exceeds
	// the tolerance. The returned step size proposal is still usable.
	ErrStepRejected = errors.New("electro: step rejected")
)

// InvalidChargeError reports which input record failed validation.
type InvalidChargeError struct {
	Index  int
	Reason string
}

func (e *InvalidChargeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidCharge, e.Reason)
	}
	return fmt.Sprintf("%v: charge %d: %s", ErrInvalidCharge, e.Index, e.Reason)
}

func (e *InvalidChargeError) Is(target error) bool {
	return target == ErrInvalidCharge
}

// SingularFieldError wraps ErrSingularField with the offending point.
type SingularFieldError struct {
	Point    r3.Vec
	Charge   int
	Distance float64
}

func (e *SingularFieldError) Error() string {
	return fmt.Sprintf("%v: (%g, %g, %g) is %.3g m from charge %d",
		ErrSingularField, e.Point.X, e.Point.Y, e.Point.Z, e.Distance, e.Charge)
}

func (e *SingularFieldError) Is(target error) bool {
	return target == ErrSingularField
}

// CoincidentChargesError names the two charges that share a position. It
// also matches ErrInvalidCharge, since such a pair is never a valid set.
type CoincidentChargesError struct {
	I, J     int
	Position r3.Vec
}

func (e *CoincidentChargesError) Error() string {
	return fmt.Sprintf("%v: charges %d and %d at (%g, %g, %g)",
		ErrCoincidentCharges, e.I, e.J, e.Position.X, e.Position.Y, e.Position.Z)
}

func (e *CoincidentChargesError) Is(target error) bool {
	return target == ErrCoincidentCharges || target == ErrInvalidCharge
}
