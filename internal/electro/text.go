package electro

import "fmt"

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "forward":
		*d = Forward
	case "backward":
		*d = Backward
	default:
		return fmt.Errorf("direction %q: %w", b, ErrInvalidParams)
	}
	return nil
}

func (t Termination) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Termination) UnmarshalText(b []byte) error {
	for _, c := range []Termination{Absorbed, OutOfBounds, MaxSteps, Stagnation} {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("termination %q: %w", b, ErrInvalidParams)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "CONVERGED":
		*s = Converged
	case "NOT_CONVERGED":
		*s = NotConverged
	default:
		return fmt.Errorf("status %q: %w", b, ErrInvalidParams)
	}
	return nil
}
