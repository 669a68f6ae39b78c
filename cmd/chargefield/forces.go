package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/equilibrium"
	"github.com/san-kum/chargefield/internal/force"
	"github.com/san-kum/chargefield/internal/viz"
	"github.com/spf13/cobra"
)

func showForces(cmd *cobra.Command, args []string) error {
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}
	pairs, err := force.Pairwise(cs)
	if err != nil {
		return err
	}
	net, err := force.NetAll(cs)
	if err != nil {
		return err
	}
	energy, err := force.TotalEnergy(cs)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d charges (%s)", cfg.Name, cs.Len(), cfg.Unit)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ON\tFROM\tFX\tFY\tFZ\t|F| (N)\tR (m)")
	for _, rec := range pairs {
		fmt.Fprintf(w, "%d\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			rec.I, rec.J, rec.Force.X, rec.Force.Y, rec.Force.Z, rec.Magnitude, rec.Distance)
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHARGE\tQ (C)\tNET FX\tNET FY\tNET FZ")
	for i, f := range net {
		c := cs.At(i)
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\t%.4g\t%.4g\n", c.ID, c.Q, f.X, f.Y, f.Z)
	}
	w.Flush()

	fmt.Println()
	fmt.Println(viz.Metric("potential energy", energy.Total, "J"))
	if energy.Total < 0 {
		fmt.Println(viz.Subtle.Render("bound configuration"))
	}
	return nil
}

func findEquilibrium(cmd *cobra.Command, args []string) error {
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}
	tgt := cfg.EquilibriumTarget()
	opts := cfg.EquilibriumOptions()

	var pts []electro.EquilibriumPoint
	if len(guess) > 0 && !cmd.Flags().Changed("scan") {
		g, err := vecFlag("guess", guess)
		if err != nil {
			return err
		}
		pt, err := equilibrium.Find(cs, tgt, g, opts)
		if err != nil {
			return err
		}
		pts = append(pts, pt)
	} else {
		n := cfg.Equilibrium.ScanN
		if n < 1 {
			return fmt.Errorf("scan size %d: %w", n, electro.ErrInvalidParams)
		}
		pts, err = equilibrium.Scan(context.Background(), cs, tgt, cfg.Bounds(), n, opts)
		if err != nil {
			return err
		}
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: equilibrium of %s", cfg.Name, tgt)))
	if len(pts) == 0 {
		fmt.Println(viz.Warn.Render("no equilibrium found in the search box"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X\tY\tZ\tRESIDUAL (N)\tITERS\tMETHOD\tSTATUS")
	for _, pt := range pts {
		fmt.Fprintf(w, "%.6g\t%.6g\t%.6g\t%.3g\t%d\t%s\t%s\n",
			pt.Point.X, pt.Point.Y, pt.Point.Z, pt.Residual, pt.Iterations, pt.Method, pt.Status)
	}
	return w.Flush()
}
