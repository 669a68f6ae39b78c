package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/san-kum/chargefield/internal/config"
	"github.com/san-kum/chargefield/internal/electro"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	// trace
	integrator     string
	stepSize       float64
	maxSteps       int
	seedsPerCharge int
	randomSeeds    int
	adaptive       bool
	plotLines      bool

	// equilibrium
	guess  []float64
	scanN  int
	target int

	// field / profile / grid
	testQ   float64
	from    []float64
	to      []float64
	samples int
	gridN   int
	asCSV   bool

	// runs
	runName string
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chargefield",
		Short:         "electrostatics of point charges: fields, forces, field lines, equilibria",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".chargefield", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "dipole", "preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	fieldCmd := &cobra.Command{
		Use:   "field X Y Z",
		Short: "field, potential and force at a point",
		Args:  cobra.ExactArgs(3),
		RunE:  fieldAt,
	}
	fieldCmd.Flags().Float64Var(&testQ, "q", 1, "test charge in the config unit")

	forcesCmd := &cobra.Command{
		Use:   "forces",
		Short: "pairwise and net forces with the configuration energy",
		RunE:  showForces,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "trace field lines",
		RunE:  traceLines,
	}
	addTraceFlags(traceCmd)
	traceCmd.Flags().BoolVar(&plotLines, "plot", false, "draw the lines")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "trace the same seeds with several integrators",
		RunE:  compareIntegrators,
	}
	addTraceFlags(compareCmd)

	equilibriumCmd := &cobra.Command{
		Use:   "equilibrium",
		Short: "find points where the net force vanishes",
		RunE:  findEquilibrium,
	}
	equilibriumCmd.Flags().Float64SliceVar(&guess, "guess", nil, "initial guess x,y,z")
	equilibriumCmd.Flags().IntVar(&scanN, "scan", config.DefaultScanN, "multistart lattice size per axis")
	equilibriumCmd.Flags().IntVar(&target, "target", -1, "charge that moves (-1 for a test charge)")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot potential and field strength along a segment",
		RunE:  plotProfile,
	}
	profileCmd.Flags().Float64SliceVar(&from, "from", []float64{-2, 0, 0}, "segment start x,y,z")
	profileCmd.Flags().Float64SliceVar(&to, "to", []float64{2, 0, 0}, "segment end x,y,z")
	profileCmd.Flags().IntVar(&samples, "n", 81, "samples along the segment")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "sample the field on a lattice",
		RunE:  sampleGrid,
	}
	gridCmd.Flags().IntVar(&gridN, "n", 0, "nodes per axis (0 keeps the config value)")
	gridCmd.Flags().BoolVar(&asCSV, "csv", false, "write samples as CSV")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "full analysis, saved to the data directory",
		RunE:  runExperiment,
	}
	addTraceFlags(runCmd)
	runCmd.Flags().IntVar(&scanN, "scan", config.DefaultScanN, "equilibrium scan lattice size (0 disables)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&runName, "name", "", "only runs with this name")

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print or write the full report of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(fieldCmd, forcesCmd, traceCmd, compareCmd, equilibriumCmd,
		profileCmd, gridCmd, runCmd, listCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addTraceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.Float64Var(&stepSize, "step", 0.05, "step size (m)")
	f.IntVar(&maxSteps, "steps", 500, "maximum steps per line")
	f.IntVar(&seedsPerCharge, "seeds", config.DefaultSeedsPerCharge, "seeds per source charge")
	f.IntVar(&randomSeeds, "random", 0, "extra random seeds")
	f.BoolVar(&adaptive, "adaptive", false, "adaptive step size")
}

// loadConfig resolves the configuration: a config file wins over the preset,
// and explicitly set flags win over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see 'chargefield presets')", preset)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Trace.Integrator = integrator
	}
	if flags.Changed("step") {
		cfg.Trace.StepSize = stepSize
	}
	if flags.Changed("steps") {
		cfg.Trace.MaxSteps = maxSteps
	}
	if flags.Changed("seeds") {
		cfg.Trace.SeedsPerCharge = seedsPerCharge
	}
	if flags.Changed("random") {
		cfg.Trace.RandomSeeds = randomSeeds
	}
	if flags.Changed("adaptive") {
		cfg.Trace.Adaptive = adaptive
	}
	if flags.Changed("target") {
		cfg.Equilibrium.Target = target
	}
	if flags.Changed("scan") {
		cfg.Equilibrium.ScanN = scanN
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config resolved", "name", cfg.Name, "charges", len(cfg.Charges), "unit", cfg.Unit)
	return cfg, nil
}

func chargeSet(cmd *cobra.Command) (*config.Config, *electro.ChargeSet, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cs, err := cfg.ChargeSet()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cs, nil
}

func parseVec(args []string) (r3.Vec, error) {
	var xyz [3]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("coordinate %q: %w", a, err)
		}
		xyz[i] = v
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func vecFlag(name string, vals []float64) (r3.Vec, error) {
	if len(vals) != 3 {
		return r3.Vec{}, fmt.Errorf("--%s needs three values x,y,z, got %d", name, len(vals))
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
