// Package experiment runs the full analysis of one charge configuration.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/chargefield/internal/config"
	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/equilibrium"
	"github.com/san-kum/chargefield/internal/field"
	"github.com/san-kum/chargefield/internal/force"
	"github.com/san-kum/chargefield/internal/tracer"
	"gonum.org/v1/gonum/spatial/r3"
)

// Report is everything computed for one configuration. Force and
// equilibrium sections are empty for a single charge.
type Report struct {
	Name        string                     `json:"name"`
	Unit        string                     `json:"unit"`
	CreatedAt   time.Time                  `json:"created_at"`
	Charges     []electro.Charge           `json:"charges"`
	TotalCharge float64                    `json:"total_charge"`
	Pairwise    []electro.ForceRecord      `json:"pairwise"`
	NetForces   []r3.Vec                   `json:"net_forces"`
	Energy      electro.EnergyResult       `json:"energy"`
	Probe       *force.Breakdown           `json:"probe,omitempty"`
	Lines       []electro.FieldLine        `json:"lines"`
	Equilibria  []electro.EquilibriumPoint `json:"equilibria"`
	Samples     []electro.FieldSample      `json:"samples"`
	FieldEnergy float64                    `json:"field_energy"`
	Elapsed     time.Duration              `json:"elapsed"`
	Config      *config.Config             `json:"config"`
}

// LineSummary counts the lines by termination reason.
func (r *Report) LineSummary() map[electro.Termination]int {
	return tracer.Summary(r.Lines)
}

type Experiment struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:    cfg,
		logger: slog.Default(),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

// WithLogger sets the logger phase timings go to. A nil logger keeps the
// default.
func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	if l != nil {
		e.logger = l
	}
	return e
}

func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	cs, err := e.cfg.ChargeSet()
	if err != nil {
		return nil, fmt.Errorf("charges: %w", err)
	}

	r := &Report{
		Name:        e.cfg.Name,
		Unit:        e.cfg.Unit,
		CreatedAt:   start.UTC(),
		Charges:     cs.All(),
		TotalCharge: cs.TotalCharge(),
		Config:      e.cfg,
	}
	e.logger.Info("experiment starting", "name", r.Name, "charges", cs.Len())

	phases := []struct {
		name string
		run  func(context.Context, *electro.ChargeSet, *Report) error
	}{
		{"forces", e.forces},
		{"probe", e.probe},
		{"lines", e.lines},
		{"equilibria", e.equilibria},
		{"grid", e.grid},
	}
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t0 := time.Now()
		if err := ph.run(ctx, cs, r); err != nil {
			return nil, fmt.Errorf("%s: %w", ph.name, err)
		}
		e.logger.Debug("phase done", "phase", ph.name, "elapsed", time.Since(t0))
	}

	r.Elapsed = time.Since(start)
	e.logger.Info("experiment finished",
		"name", r.Name,
		"lines", len(r.Lines),
		"equilibria", len(r.Equilibria),
		"elapsed", r.Elapsed)
	return r, nil
}

func (e *Experiment) forces(_ context.Context, cs *electro.ChargeSet, r *Report) error {
	if cs.Len() < 2 {
		e.logger.Debug("single charge, skipping forces")
		return nil
	}
	var err error
	if r.Pairwise, err = force.Pairwise(cs); err != nil {
		return err
	}
	if r.NetForces, err = force.NetAll(cs); err != nil {
		return err
	}
	r.Energy, err = force.TotalEnergy(cs)
	return err
}

func (e *Experiment) probe(_ context.Context, cs *electro.ChargeSet, r *Report) error {
	p, q, err := e.cfg.ProbeCharge()
	if err != nil {
		return err
	}
	if q == 0 {
		return nil
	}
	b, err := force.OnTestCharge(cs, q, p)
	if errors.Is(err, electro.ErrSingularField) {
		e.logger.Warn("probe sits on a charge, skipping", "point", p)
		return nil
	}
	if err != nil {
		return err
	}
	r.Probe = &b
	return nil
}

func (e *Experiment) lines(ctx context.Context, cs *electro.ChargeSet, r *Report) error {
	seeds := Seeds(e.cfg, cs, e.rng)
	lines, err := tracer.TraceAll(ctx, cs, seeds, e.cfg.TraceParams())
	if err != nil {
		return err
	}
	r.Lines = lines
	return nil
}

// Seeds builds the seed list the configuration asks for: sphere seeds around
// the source charges, then cfg.Trace.RandomSeeds points drawn from rng.
func Seeds(cfg *config.Config, cs *electro.ChargeSet, rng *rand.Rand) []tracer.Seed {
	tc := cfg.Trace
	seeds := tracer.SphereSeeds(cs, tc.SeedsPerCharge, tc.SeedRadius)
	for _, s := range tracer.RandomSeeds(rng, tc.RandomSeeds, cfg.Bounds()) {
		// a random seed on a charge has no line
		if _, d := cs.Nearest(s.Point); d >= electro.SingularRadius {
			seeds = append(seeds, s)
		}
	}
	return seeds
}

func (e *Experiment) equilibria(ctx context.Context, cs *electro.ChargeSet, r *Report) error {
	n := e.cfg.Equilibrium.ScanN
	if n == 0 {
		return nil
	}
	pts, err := equilibrium.Scan(ctx, cs, e.cfg.EquilibriumTarget(), e.cfg.Bounds(), n, e.cfg.EquilibriumOptions())
	if errors.Is(err, electro.ErrTooFewCharges) {
		e.logger.Debug("too few sources for an equilibrium search")
		return nil
	}
	if err != nil {
		return err
	}
	r.Equilibria = pts
	return nil
}

func (e *Experiment) grid(ctx context.Context, cs *electro.ChargeSet, r *Report) error {
	samples, err := field.Grid(ctx, cs, e.cfg.GridSpec())
	if err != nil {
		return err
	}
	r.Samples = samples
	r.FieldEnergy, err = field.Energy(ctx, cs, e.cfg.Bounds(), e.cfg.Grid.EnergyN)
	return err
}
