package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/san-kum/chargefield/internal/config"
	"github.com/san-kum/chargefield/internal/experiment"
	"github.com/san-kum/chargefield/internal/storage"
	"github.com/san-kum/chargefield/internal/viz"
	"github.com/spf13/cobra"
)

const catalogFile = "catalog.db"

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	report, err := experiment.New(cfg).WithLogger(slog.Default()).Run(context.Background())
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(report)
	if err != nil {
		return err
	}

	catalog, err := storage.OpenCatalog(filepath.Join(dataDir, catalogFile))
	if err != nil {
		return err
	}
	defer catalog.Close()
	if err := catalog.Record(context.Background(), storage.Metadata(runID, report)); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s  %s", report.Name, runID)))
	fmt.Println(viz.Metric("charges", float64(len(report.Charges)), ""))
	fmt.Println(viz.Metric("total charge", report.TotalCharge, "C"))
	if len(report.Pairwise) > 0 {
		fmt.Println(viz.Metric("potential energy", report.Energy.Total, "J"))
	}
	fmt.Println(viz.Metric("field energy", report.FieldEnergy, "J"))
	if p := report.Probe; p != nil {
		fmt.Println(viz.Metric("probe |F|", p.Magnitude, "N"))
	}

	summary := report.LineSummary()
	fmt.Printf("%d lines:", len(report.Lines))
	for _, t := range terminations {
		if n := summary[t]; n > 0 {
			fmt.Printf(" %s %d", viz.Reason(t), n)
		}
	}
	fmt.Println()

	for _, pt := range report.Equilibria {
		fmt.Printf("equilibrium (%.4g, %.4g, %.4g) %s\n", pt.Point.X, pt.Point.Y, pt.Point.Z, viz.Status(pt.Status))
	}
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("saved to %s in %v", filepath.Join(dataDir, runID), report.Elapsed.Round(time.Millisecond))))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	var runs []storage.RunMetadata
	if runName != "" {
		catalog, err := storage.OpenCatalog(filepath.Join(dataDir, catalogFile))
		if err != nil {
			return err
		}
		defer catalog.Close()
		if runs, err = catalog.List(context.Background(), runName); err != nil {
			return err
		}
	} else {
		var err error
		if runs, err = storage.New(dataDir).List(); err != nil {
			return err
		}
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCHARGES\tENERGY (J)\tLINES\tEQUILIBRIA\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4g\t%d\t%d\t%s\n",
			r.ID, r.Name, r.Charges, r.Energy, r.Lines, r.Equilibria,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	report, err := storage.New(dataDir).LoadReport(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.ExportJSON(os.Stdout, report)
	}
	if err := storage.ExportJSONFile(outFile, report); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PRESET\tCHARGES\tNET (%s)\n", config.DefaultUnit)
	for _, name := range config.ListPresets() {
		charges := config.Presets[name]
		net := 0.0
		for _, c := range charges {
			net += c.Q
		}
		fmt.Fprintf(w, "%s\t%d\t%g\n", name, len(charges), net)
	}
	return w.Flush()
}
