package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "uC", cfg.Unit)
	assert.Equal(t, "rk4", cfg.Trace.Integrator)
	assert.Equal(t, -1, cfg.Equilibrium.Target)
	assert.Equal(t, 1e-6, cfg.Equilibrium.Tolerance)
	assert.Equal(t, 100, cfg.Equilibrium.MaxIterations)

	// Defaults are valid apart from the missing charges.
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "no charges")
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NotNil(t, cfg)
			assert.Equal(t, name, cfg.Name)
			require.NoError(t, cfg.Validate())

			cs, err := cfg.ChargeSet()
			require.NoError(t, err)
			assert.Equal(t, len(Presets[name]), cs.Len())
		})
	}
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestGetPreset_IsACopy(t *testing.T) {
	cfg := GetPreset("dipole")
	cfg.Charges[0].Q = 99
	assert.Equal(t, 1.0, Presets["dipole"][0].Q)
}

func TestListPresets_NaturalOrder(t *testing.T) {
	assert.Equal(t, []string{
		"dipole", "like_pair", "line_unequal", "quadrupole",
		"ring3", "ring4", "ring6", "ring12", "triangle",
	}, ListPresets())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "pair.yaml", `
name: pair
unit: mC
charges:
  - {x: -1, q: 2}
  - {x: 1, y: 0.5, q: -3}
trace:
  max_steps: 50
equilibrium:
  target: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "pair", cfg.Name)
	assert.Equal(t, 50, cfg.Trace.MaxSteps)
	assert.Equal(t, 0.05, cfg.Trace.StepSize, "unset keys keep their defaults")

	cs, err := cfg.ChargeSet()
	require.NoError(t, err)
	require.Equal(t, 2, cs.Len())
	assert.InEpsilon(t, 2e-3, cs.At(0).Q, 1e-12)
	assert.InEpsilon(t, -3e-3, cs.At(1).Q, 1e-12)
	assert.Equal(t, 0.5, cs.At(1).Position.Y)

	assert.Equal(t, 1, cfg.EquilibriumTarget().Charge)
	assert.Equal(t, 50, cfg.TraceParams().MaxSteps)
}

func TestEquilibriumOptions_TestChargeInCoulombs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Unit = "nC"
	cfg.Equilibrium.TestCharge = -2
	opts := cfg.EquilibriumOptions()
	assert.Equal(t, -2.0, opts.TestCharge, "unit applies to charges, not to the test charge")
	assert.Equal(t, cfg.Equilibrium.Tolerance, opts.Tolerance)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "pair.toml", `
name = "pair"
unit = "nC"
half_width = 2.0

[[charges]]
x = -1.0
q = 5.0

[[charges]]
x = 1.0
q = 5.0

[grid]
n = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Grid.N)
	assert.Equal(t, electro.Cube(2), cfg.GridSpec().Bounds)

	cs, err := cfg.ChargeSet()
	require.NoError(t, err)
	assert.InEpsilon(t, 5e-9, cs.At(0).Q, 1e-12)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name, file, body string
	}{
		{"unknown yaml key", "a.yaml", "charge_list: []\n"},
		{"unknown toml key", "a.toml", "colour = \"red\"\n"},
		{"bad yaml", "a.yaml", "charges: [\n"},
		{"unknown format", "a.json", "{}"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoad(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := GetPreset("triangle")
			cfg.Trace.Adaptive = true
			cfg.Equilibrium.ScanN = 3

			path := filepath.Join(t.TempDir(), "cfg"+ext)
			require.NoError(t, Save(path, cfg))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := GetPreset("dipole")
	cfg.Unit = "kC"
	cfg.HalfWidth = 0
	cfg.Equilibrium.Target = 5
	cfg.Trace.Integrator = "verlet"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), `unit "kC"`)
	assert.Contains(t, err.Error(), "half_width")
	assert.Contains(t, err.Error(), "equilibrium.target 5")
	assert.Contains(t, err.Error(), `trace.integrator "verlet"`)

	_, err = cfg.ChargeSet()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChargeSet_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Charges = []ChargeConfig{{Q: 1}, {Q: 2}}
	_, err := cfg.ChargeSet()
	assert.ErrorIs(t, err, electro.ErrCoincidentCharges)
}

func TestProbeCharge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probe = ProbeConfig{X: 1, Q: -2}
	p, q, err := cfg.ProbeCharge()
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X)
	assert.InEpsilon(t, -2e-6, q, 1e-12)
}
