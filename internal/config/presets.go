package config

import (
	"math"
	"sort"

	"github.com/facette/natsort"
)

// Presets are named charge layouts in microcoulombs.
var Presets = map[string][]ChargeConfig{
	"dipole": {
		{X: -1, Q: 1},
		{X: 1, Q: -1},
	},
	"like_pair": {
		{X: -1, Q: 1},
		{X: 1, Q: 1},
	},
	"triangle": ring(3, 1, 1),
	"quadrupole": {
		{X: 1, Y: 1, Q: 1},
		{X: -1, Y: 1, Q: -1},
		{X: -1, Y: -1, Q: 1},
		{X: 1, Y: -1, Q: -1},
	},
	"ring3":  ring(3, 1.5, 1),
	"ring4":  ring(4, 1.5, 1),
	"ring6":  ring(6, 1.5, 1),
	"ring12": ring(12, 1.5, 0.5),
	"line_unequal": {
		{X: -1, Q: 1},
		{X: 2, Q: 4},
	},
}

// ring places n equal charges evenly on a circle in the xy-plane.
func ring(n int, radius, q float64) []ChargeConfig {
	out := make([]ChargeConfig, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = ChargeConfig{X: radius * math.Cos(a), Y: radius * math.Sin(a), Q: q}
	}
	return out
}

// GetPreset returns a default config holding the named layout, or nil.
func GetPreset(name string) *Config {
	charges, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Unit = DefaultUnit
	cfg.Charges = append([]ChargeConfig(nil), charges...)
	return cfg
}

// ListPresets returns the preset names in natural order (ring6 before ring12).
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return natsort.Compare(names[i], names[j])
	})
	return names
}
