package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/chargefield/internal/config"
	"github.com/san-kum/chargefield/internal/field"
	"github.com/san-kum/chargefield/internal/force"
	"github.com/san-kum/chargefield/internal/storage"
	"github.com/san-kum/chargefield/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

func fieldAt(cmd *cobra.Command, args []string) error {
	p, err := parseVec(args)
	if err != nil {
		return err
	}
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}
	scale, err := config.UnitScale(cfg.Unit)
	if err != nil {
		return err
	}

	s, err := field.Sample(cs, p)
	if err != nil {
		return err
	}
	b, err := force.OnTestCharge(cs, testQ*scale, p)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s at (%g, %g, %g)", cfg.Name, p.X, p.Y, p.Z)))
	fmt.Printf("E = (%.6g, %.6g, %.6g) N/C\n", s.Vector.X, s.Vector.Y, s.Vector.Z)
	fmt.Println(viz.Metric("|E|", s.Magnitude, "N/C"))
	fmt.Println(viz.Metric("V", s.Potential, "V"))
	fmt.Println(viz.Separator(40))
	fmt.Printf("force on %g %s: (%.6g, %.6g, %.6g) N\n", testQ, cfg.Unit, b.Net.X, b.Net.Y, b.Net.Z)
	fmt.Println(viz.Metric("|F|", b.Magnitude, "N"))
	fmt.Println(viz.Metric("azimuth", b.Azimuth, "deg"))
	fmt.Println(viz.Metric("elevation", b.Elevation, "deg"))
	fmt.Println(viz.Metric("U", b.PotentialEnergy, "J"))
	for _, src := range b.Sources {
		fmt.Printf("  from #%d  |F| %.6g N  at %.4g m\n", src.Charge, src.Magnitude, src.Distance)
	}
	if b.Equilibrium {
		fmt.Println(viz.Good.Render("net force below threshold: equilibrium"))
	}
	return nil
}

func plotProfile(cmd *cobra.Command, args []string) error {
	a, err := vecFlag("from", from)
	if err != nil {
		return err
	}
	b, err := vecFlag("to", to)
	if err != nil {
		return err
	}
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}

	pts, err := field.Profile(cs, a, b, samples)
	if err != nil {
		return err
	}
	if len(pts) < samples {
		fmt.Println(viz.Subtle.Render(fmt.Sprintf("%d points on charges skipped", samples-len(pts))))
	}

	potential := make([]float64, len(pts))
	strength := make([]float64, len(pts))
	for i, s := range pts {
		potential[i] = s.Potential
		// log scale keeps the peaks near charges from flattening the rest
		strength[i] = math.Log10(math.Max(s.Magnitude, 1e-12))
	}

	span := r3.Norm(r3.Sub(b, a))
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %.3g m segment", cfg.Name, span)))
	fmt.Println(viz.Profile(potential, "V (volts)", 60, 12))
	fmt.Println()
	fmt.Println(viz.Profile(strength, "log10 |E| (N/C)", 60, 12))
	return nil
}

func sampleGrid(cmd *cobra.Command, args []string) error {
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}
	spec := cfg.GridSpec()
	if gridN > 0 {
		spec.N = gridN
	}

	ctx := context.Background()
	pts, err := field.Grid(ctx, cs, spec)
	if err != nil {
		return err
	}

	if asCSV {
		w := csv.NewWriter(os.Stdout)
		if err := w.WriteAll(storage.SampleTable(pts)); err != nil {
			return err
		}
		return nil
	}

	u, err := field.Energy(ctx, cs, cfg.Bounds(), cfg.Grid.EnergyN)
	if err != nil {
		return err
	}

	total := spec.N * spec.N * spec.N
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d³ lattice", cfg.Name, spec.N)))
	fmt.Printf("%d of %d nodes kept\n", len(pts), total)
	if len(pts) > 0 {
		lo, hi := pts[0].Magnitude, pts[0].Magnitude
		mags := make([]float64, len(pts))
		for i, s := range pts {
			lo, hi = min(lo, s.Magnitude), max(hi, s.Magnitude)
			mags[i] = s.Magnitude
		}
		fmt.Println(viz.Metric("min |E|", lo, "N/C"))
		fmt.Println(viz.Metric("max |E|", hi, "N/C"))
		fmt.Println(viz.Sparkline(mags, 60))
	}
	fmt.Println(viz.Metric("field energy", u, "J"))
	return nil
}
