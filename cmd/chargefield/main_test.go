package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/chargefield/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func traceCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "trace"}
	addTraceFlags(cmd)
	return cmd
}

func TestLoadConfig_PresetAndOverrides(t *testing.T) {
	preset, configFile = "like_pair", ""
	cmd := traceCommand()
	require.NoError(t, cmd.Flags().Set("integrator", "rk45"))
	require.NoError(t, cmd.Flags().Set("steps", "42"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "like_pair", cfg.Name)
	assert.Equal(t, "rk45", cfg.Trace.Integrator)
	assert.Equal(t, 42, cfg.Trace.MaxSteps)
	// untouched flags keep the preset's values
	assert.Equal(t, config.DefaultSeedsPerCharge, cfg.Trace.SeedsPerCharge)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: pair
unit: nC
charges:
  - {x: -1, q: 5}
  - {x: 1, q: -5}
`), 0644))

	preset, configFile = "dipole", path
	t.Cleanup(func() { configFile = "" })

	cfg, err := loadConfig(traceCommand())
	require.NoError(t, err)
	assert.Equal(t, "pair", cfg.Name)
	assert.Len(t, cfg.Charges, 2)
}

func TestLoadConfig_Errors(t *testing.T) {
	preset, configFile = "no_such_layout", ""
	_, err := loadConfig(traceCommand())
	assert.ErrorContains(t, err, "unknown preset")

	preset = "dipole"
	cmd := traceCommand()
	require.NoError(t, cmd.Flags().Set("integrator", "leapfrog"))
	_, err = loadConfig(cmd)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestParseVec(t *testing.T) {
	v, err := parseVec([]string{"1", "-2.5", "3e-1"})
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 1, Y: -2.5, Z: 0.3}, v)

	_, err = parseVec([]string{"1", "y", "0"})
	assert.Error(t, err)

	_, err = vecFlag("guess", []float64{1, 2})
	assert.ErrorContains(t, err, "--guess")
}
