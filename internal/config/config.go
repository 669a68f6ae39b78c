package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/equilibrium"
	"github.com/san-kum/chargefield/internal/field"
	"github.com/san-kum/chargefield/internal/integrators"
	"github.com/san-kum/chargefield/internal/tracer"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUnit           = "uC"
	DefaultHalfWidth      = 3.0
	DefaultSeedsPerCharge = 16
	DefaultSeedRadius     = 0.2
	DefaultGridN          = 6
	DefaultEnergyN        = 21
	DefaultScanN          = 4
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// unitScale maps a charge unit to coulombs.
var unitScale = map[string]float64{
	"C":  1,
	"mC": 1e-3,
	"uC": 1e-6,
	"µC": 1e-6,
	"nC": 1e-9,
}

type Config struct {
	Name        string            `yaml:"name" toml:"name"`
	Unit        string            `yaml:"unit" toml:"unit"`
	HalfWidth   float64           `yaml:"half_width" toml:"half_width"`
	Seed        int64             `yaml:"seed" toml:"seed"`
	Charges     []ChargeConfig    `yaml:"charges" toml:"charges"`
	Probe       ProbeConfig       `yaml:"probe" toml:"probe"`
	Trace       TraceConfig       `yaml:"trace" toml:"trace"`
	Equilibrium EquilibriumConfig `yaml:"equilibrium" toml:"equilibrium"`
	Grid        GridConfig        `yaml:"grid" toml:"grid"`
}

// ChargeConfig is one point charge. Q is in the config's Unit.
type ChargeConfig struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
	Q float64 `yaml:"q" toml:"q"`
}

// ProbeConfig places the test charge used for the force breakdown. Q is in
// the config's Unit.
type ProbeConfig struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
	Q float64 `yaml:"q" toml:"q"`
}

type TraceConfig struct {
	Integrator     string  `yaml:"integrator" toml:"integrator"`
	StepSize       float64 `yaml:"step_size" toml:"step_size"`
	MaxSteps       int     `yaml:"max_steps" toml:"max_steps"`
	CaptureRadius  float64 `yaml:"capture_radius" toml:"capture_radius"`
	MinField       float64 `yaml:"min_field" toml:"min_field"`
	SeedsPerCharge int     `yaml:"seeds_per_charge" toml:"seeds_per_charge"`
	SeedRadius     float64 `yaml:"seed_radius" toml:"seed_radius"`
	RandomSeeds    int     `yaml:"random_seeds" toml:"random_seeds"`
	Adaptive       bool    `yaml:"adaptive" toml:"adaptive"`
	Tolerance      float64 `yaml:"tolerance" toml:"tolerance"`
}

// EquilibriumConfig tunes the equilibrium search. Target is -1 for a test
// charge or the index of the charge that moves. TestCharge is in coulombs,
// not in Unit: it only sets the sign and scale of the force whose magnitude
// Tolerance bounds, in newtons.
type EquilibriumConfig struct {
	Target        int     `yaml:"target" toml:"target"`
	Tolerance     float64 `yaml:"tolerance" toml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations" toml:"max_iterations"`
	TestCharge    float64 `yaml:"test_charge" toml:"test_charge"`
	ScanN         int     `yaml:"scan_n" toml:"scan_n"`
}

type GridConfig struct {
	N            int     `yaml:"n" toml:"n"`
	MinMagnitude float64 `yaml:"min_magnitude" toml:"min_magnitude"`
	MaxMagnitude float64 `yaml:"max_magnitude" toml:"max_magnitude"`
	EnergyN      int     `yaml:"energy_n" toml:"energy_n"`
}

func DefaultConfig() *Config {
	tp := tracer.DefaultParams()
	eo := equilibrium.DefaultOptions()
	gs := field.DefaultGridSpec()
	return &Config{
		Name:      "custom",
		Unit:      DefaultUnit,
		HalfWidth: DefaultHalfWidth,
		Seed:      1,
		Probe:     ProbeConfig{Y: 1, Q: 1},
		Trace: TraceConfig{
			Integrator:     tp.Integrator,
			StepSize:       tp.StepSize,
			MaxSteps:       tp.MaxSteps,
			CaptureRadius:  tp.CaptureRadius,
			MinField:       tp.MinField,
			SeedsPerCharge: DefaultSeedsPerCharge,
			SeedRadius:     DefaultSeedRadius,
			Tolerance:      tp.Tolerance,
		},
		Equilibrium: EquilibriumConfig{
			Target:        -1,
			Tolerance:     eo.Tolerance,
			MaxIterations: eo.MaxIterations,
			TestCharge:    eo.TestCharge,
			ScanN:         DefaultScanN,
		},
		Grid: GridConfig{
			N:            DefaultGridN,
			MinMagnitude: gs.MinMagnitude,
			MaxMagnitude: gs.MaxMagnitude,
			EnergyN:      DefaultEnergyN,
		},
	}
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown keys %v: %w", path, undecoded, ErrInvalidConfig)
		}
	default:
		return nil, fmt.Errorf("config format %q: %w", ext, ErrInvalidConfig)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		data = out
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("config format %q: %w", ext, ErrInvalidConfig)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrInvalidConfig)...))
		}
	}

	_, unitOK := unitScale[c.Unit]
	check(unitOK, "unit %q", c.Unit)
	check(len(c.Charges) > 0, "no charges")
	check(c.HalfWidth > 0, "half_width %g", c.HalfWidth)
	check(c.Trace.StepSize > 0, "trace.step_size %g", c.Trace.StepSize)
	check(c.Trace.MaxSteps > 0, "trace.max_steps %d", c.Trace.MaxSteps)
	check(c.Trace.CaptureRadius > 0, "trace.capture_radius %g", c.Trace.CaptureRadius)
	check(c.Trace.MinField >= 0, "trace.min_field %g", c.Trace.MinField)
	check(c.Trace.SeedsPerCharge >= 0, "trace.seeds_per_charge %d", c.Trace.SeedsPerCharge)
	check(c.Trace.SeedRadius > 0, "trace.seed_radius %g", c.Trace.SeedRadius)
	check(c.Trace.RandomSeeds >= 0, "trace.random_seeds %d", c.Trace.RandomSeeds)
	_, integErr := integrators.ByName(c.Trace.Integrator)
	check(integErr == nil, "trace.integrator %q", c.Trace.Integrator)
	check(!c.Trace.Adaptive || c.Trace.Tolerance > 0, "trace.tolerance %g", c.Trace.Tolerance)
	check(c.Equilibrium.Target >= -1 && c.Equilibrium.Target < len(c.Charges), "equilibrium.target %d", c.Equilibrium.Target)
	check(c.Equilibrium.Tolerance > 0, "equilibrium.tolerance %g", c.Equilibrium.Tolerance)
	check(c.Equilibrium.MaxIterations > 0, "equilibrium.max_iterations %d", c.Equilibrium.MaxIterations)
	check(c.Equilibrium.TestCharge != 0, "equilibrium.test_charge %g", c.Equilibrium.TestCharge)
	check(c.Equilibrium.ScanN >= 0, "equilibrium.scan_n %d", c.Equilibrium.ScanN)
	check(c.Grid.N >= 1, "grid.n %d", c.Grid.N)
	check(c.Grid.EnergyN >= 2, "grid.energy_n %d", c.Grid.EnergyN)
	check(c.Grid.MaxMagnitude == 0 || c.Grid.MinMagnitude <= c.Grid.MaxMagnitude, "grid magnitude window [%g, %g]", c.Grid.MinMagnitude, c.Grid.MaxMagnitude)
	return errors.Join(errs...)
}

// UnitScale returns the number of coulombs in one unit.
func UnitScale(unit string) (float64, error) {
	s, ok := unitScale[unit]
	if !ok {
		return 0, fmt.Errorf("unit %q: %w", unit, ErrInvalidConfig)
	}
	return s, nil
}

// ChargeSet converts the configured charges to coulombs and validates them.
func (c *Config) ChargeSet() (*electro.ChargeSet, error) {
	scale, err := UnitScale(c.Unit)
	if err != nil {
		return nil, err
	}
	specs := make([]electro.ChargeSpec, len(c.Charges))
	for i, ch := range c.Charges {
		specs[i] = electro.ChargeSpec{X: ch.X, Y: ch.Y, Z: ch.Z, Q: ch.Q * scale}
	}
	return electro.NewChargeSet(specs)
}

// ProbeCharge returns the probe position and its charge in coulombs.
func (c *Config) ProbeCharge() (r3.Vec, float64, error) {
	scale, err := UnitScale(c.Unit)
	if err != nil {
		return r3.Vec{}, 0, err
	}
	return r3.Vec{X: c.Probe.X, Y: c.Probe.Y, Z: c.Probe.Z}, c.Probe.Q * scale, nil
}

func (c *Config) Bounds() electro.Bounds {
	return electro.Cube(c.HalfWidth)
}

func (c *Config) TraceParams() tracer.Params {
	p := tracer.DefaultParams()
	p.Integrator = c.Trace.Integrator
	p.StepSize = c.Trace.StepSize
	p.MaxSteps = c.Trace.MaxSteps
	p.CaptureRadius = c.Trace.CaptureRadius
	p.MinField = c.Trace.MinField
	p.Bounds = c.Bounds()
	p.Adaptive = c.Trace.Adaptive
	p.Tolerance = c.Trace.Tolerance
	return p
}

func (c *Config) EquilibriumOptions() equilibrium.Options {
	return equilibrium.Options{
		Tolerance:     c.Equilibrium.Tolerance,
		MaxIterations: c.Equilibrium.MaxIterations,
		TestCharge:    c.Equilibrium.TestCharge,
	}
}

func (c *Config) EquilibriumTarget() equilibrium.Target {
	if c.Equilibrium.Target < 0 {
		return equilibrium.TestCharge()
	}
	return equilibrium.OfCharge(c.Equilibrium.Target)
}

func (c *Config) GridSpec() field.GridSpec {
	return field.GridSpec{
		Bounds:       c.Bounds(),
		N:            c.Grid.N,
		MinMagnitude: c.Grid.MinMagnitude,
		MaxMagnitude: c.Grid.MaxMagnitude,
	}
}
