package electro

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// FieldSample is the field (or force) vector evaluated at a point.
type FieldSample struct {
	Point     r3.Vec
	Vector    r3.Vec
	Magnitude float64
	Potential float64
}

// Direction selects which way along the field a line is traced.
type Direction int

const (
	// Forward follows the field, away from positive charges.
	Forward Direction = 1
	// Backward runs against the field, into positive charges and out of negative ones.
	Backward Direction = -1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Termination is the reason a field line stopped.
type Termination int

const (
	Absorbed Termination = iota + 1
	OutOfBounds
	MaxSteps
	Stagnation
)

func (t Termination) String() string {
	switch t {
	case Absorbed:
		return "ABSORBED"
	case OutOfBounds:
		return "OUT_OF_BOUNDS"
	case MaxSteps:
		return "MAX_STEPS"
	case Stagnation:
		return "STAGNATION"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// FieldLine is a traced polyline. Origin is the id of the charge the seed
// belongs to, or -1 for a free seed.
type FieldLine struct {
	Seed      r3.Vec
	Origin    int
	Direction Direction
	Points    []r3.Vec
	Reason    Termination
	Steps     int
	Length    float64
}

// ForceRecord is the force exerted by charge J on charge I.
type ForceRecord struct {
	I, J      int
	Force     r3.Vec
	Magnitude float64
	Distance  float64
}

// PairEnergy is the interaction energy of one unordered pair (I < J).
type PairEnergy struct {
	I, J     int
	Distance float64
	Energy   float64
}

// EnergyResult is the configuration potential energy and its pair terms.
type EnergyResult struct {
	Total float64
	Pairs []PairEnergy
}

// Status reports whether an equilibrium search converged.
type Status int

const (
	Converged Status = iota + 1
	NotConverged
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "CONVERGED"
	case NotConverged:
		return "NOT_CONVERGED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// EquilibriumPoint is the outcome of an equilibrium search. Residual is the
// net force magnitude (N) at Point.
type EquilibriumPoint struct {
	Point      r3.Vec
	Residual   float64
	Iterations int
	Status     Status
	Method     string
}
