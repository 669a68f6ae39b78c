package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/experiment"
	"github.com/san-kum/chargefield/internal/integrators"
	"github.com/san-kum/chargefield/internal/tracer"
	"github.com/san-kum/chargefield/internal/viz"
	"github.com/spf13/cobra"
)

var terminations = []electro.Termination{
	electro.Absorbed, electro.OutOfBounds, electro.MaxSteps, electro.Stagnation,
}

func traceLines(cmd *cobra.Command, args []string) error {
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}
	seeds := experiment.Seeds(cfg, cs, rand.New(rand.NewSource(cfg.Seed)))
	if len(seeds) == 0 {
		return fmt.Errorf("no seeds: raise --seeds or --random")
	}

	start := time.Now()
	lines, err := tracer.TraceAll(context.Background(), cs, seeds, cfg.TraceParams())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d lines (%s)", cfg.Name, len(lines), cfg.Trace.Integrator)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tORIGIN\tDIR\tREASON\tSTEPS\tLENGTH")
	for i, l := range lines {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%.4f\n", i, l.Origin, l.Direction, l.Reason, l.Steps, l.Length)
	}
	w.Flush()

	summary := tracer.Summary(lines)
	fmt.Println()
	for _, t := range terminations {
		if n := summary[t]; n > 0 {
			fmt.Printf("%s %d\n", viz.Reason(t), n)
		}
	}
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("traced in %v", elapsed.Round(time.Microsecond))))

	if plotLines {
		fmt.Println()
		fmt.Println(viz.FieldLines(lines, cs.All(), cfg.Bounds(), viz.Oblique, 72, 28))
	}
	return nil
}

type comparison struct {
	name     string
	steps    int
	length   float64
	absorbed int
	elapsed  time.Duration
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	cfg, cs, err := chargeSet(cmd)
	if err != nil {
		return err
	}
	seeds := experiment.Seeds(cfg, cs, rand.New(rand.NewSource(cfg.Seed)))
	if len(seeds) == 0 {
		return fmt.Errorf("no seeds: raise --seeds or --random")
	}

	results := make([]comparison, 0, len(names))
	for _, name := range names {
		p := cfg.TraceParams()
		p.Integrator = name
		// adaptive stepping would replace every fixed-step method with rk45
		p.Adaptive = name == "rk45" && cfg.Trace.Adaptive

		start := time.Now()
		lines, err := tracer.TraceAll(context.Background(), cs, seeds, p)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		r := comparison{name: name, elapsed: time.Since(start)}
		for _, l := range lines {
			r.steps += l.Steps
			r.length += l.Length
			if l.Reason == electro.Absorbed {
				r.absorbed++
			}
		}
		r.length /= float64(len(lines))
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].elapsed < results[j].elapsed })

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d seeds", cfg.Name, len(seeds))))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tMEAN LENGTH\tABSORBED\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%d/%d\t%v\n",
			r.name, r.steps, r.length, r.absorbed, len(seeds), r.elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}
