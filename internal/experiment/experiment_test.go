package experiment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/chargefield/internal/config"
	"github.com/san-kum/chargefield/internal/electro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func smallConfig(preset string) *config.Config {
	cfg := config.GetPreset(preset)
	cfg.Trace.SeedsPerCharge = 6
	cfg.Trace.MaxSteps = 200
	cfg.Grid.N = 4
	cfg.Grid.EnergyN = 8
	cfg.Equilibrium.ScanN = 2
	return cfg
}

func TestRun_LikePair(t *testing.T) {
	cfg := smallConfig("like_pair")
	r, err := New(cfg).WithLogger(quiet()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "like_pair", r.Name)
	assert.Len(t, r.Charges, 2)
	assert.InEpsilon(t, 2e-6, r.TotalCharge, 1e-12)

	require.Len(t, r.Pairwise, 2)
	require.Len(t, r.NetForces, 2)
	assert.Greater(t, r.Energy.Total, 0.0)

	require.NotNil(t, r.Probe)
	assert.InDelta(t, 90, r.Probe.Azimuth, 1e-9)

	assert.Len(t, r.Lines, 12)
	summary := r.LineSummary()
	total := 0
	for _, n := range summary {
		total += n
	}
	assert.Equal(t, len(r.Lines), total)

	require.Len(t, r.Equilibria, 1)
	assert.Less(t, r3.Norm(r.Equilibria[0].Point), 1e-6)
	assert.Equal(t, electro.Converged, r.Equilibria[0].Status)

	assert.NotEmpty(t, r.Samples)
	assert.Greater(t, r.FieldEnergy, 0.0)
	assert.Greater(t, r.Elapsed.Nanoseconds(), int64(0))
}

func TestRun_SingleCharge(t *testing.T) {
	cfg := smallConfig("like_pair")
	cfg.Charges = cfg.Charges[:1]

	r, err := New(cfg).WithLogger(quiet()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, r.Pairwise)
	assert.Empty(t, r.Equilibria)
	assert.Len(t, r.Lines, 6)
	for _, l := range r.Lines {
		assert.Equal(t, electro.OutOfBounds, l.Reason)
	}
}

func TestRun_ProbeOnCharge(t *testing.T) {
	cfg := smallConfig("dipole")
	cfg.Probe = config.ProbeConfig{X: -1, Q: 1}

	r, err := New(cfg).WithLogger(quiet()).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, r.Probe)
}

func TestRun_RandomSeeds(t *testing.T) {
	cfg := smallConfig("dipole")
	cfg.Trace.SeedsPerCharge = 0
	cfg.Trace.RandomSeeds = 5

	a, err := New(cfg).WithLogger(quiet()).Run(context.Background())
	require.NoError(t, err)
	b, err := New(cfg).WithLogger(quiet()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, a.Lines, 5)
	for i := range a.Lines {
		assert.Equal(t, a.Lines[i].Seed, b.Lines[i].Seed, "same seed, same starts")
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := smallConfig("dipole")
	cfg.Unit = "kC"
	_, err := New(cfg).WithLogger(quiet()).Run(context.Background())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(smallConfig("dipole")).WithLogger(quiet()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
