package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/chargefield/internal/electro"
)

var registry = map[string]func() electro.Integrator{
	"euler": func() electro.Integrator { return NewEuler() },
	"rk4":   func() electro.Integrator { return NewRK4() },
	"rk45":  func() electro.Integrator { return NewRK45() },
}

// ByName returns a fresh integrator. Each call allocates a new instance, so
// the result can be owned by a single trace.
func ByName(name string) (electro.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (available: %v): %w", name, Names(), electro.ErrInvalidParams)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
