package storage

import (
	"strconv"

	"github.com/san-kum/chargefield/internal/electro"
)

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
func fmtInt(v int) string       { return strconv.Itoa(v) }

// ChargeTable lists the charges, one row each. Units are SI.
func ChargeTable(charges []electro.Charge) [][]string {
	rows := [][]string{{"id", "x", "y", "z", "q"}}
	for _, c := range charges {
		rows = append(rows, []string{fmtInt(c.ID), fmtFloat(c.Position.X), fmtFloat(c.Position.Y), fmtFloat(c.Position.Z), fmtFloat(c.Q)})
	}
	return rows
}

// ForceTable lists the force on I due to J for each pair.
func ForceTable(recs []electro.ForceRecord) [][]string {
	rows := [][]string{{"i", "j", "fx", "fy", "fz", "magnitude", "distance"}}
	for _, r := range recs {
		rows = append(rows, []string{
			fmtInt(r.I), fmtInt(r.J),
			fmtFloat(r.Force.X), fmtFloat(r.Force.Y), fmtFloat(r.Force.Z),
			fmtFloat(r.Magnitude), fmtFloat(r.Distance),
		})
	}
	return rows
}

func SampleTable(samples []electro.FieldSample) [][]string {
	rows := [][]string{{"x", "y", "z", "ex", "ey", "ez", "magnitude", "potential"}}
	for _, s := range samples {
		rows = append(rows, []string{
			fmtFloat(s.Point.X), fmtFloat(s.Point.Y), fmtFloat(s.Point.Z),
			fmtFloat(s.Vector.X), fmtFloat(s.Vector.Y), fmtFloat(s.Vector.Z),
			fmtFloat(s.Magnitude), fmtFloat(s.Potential),
		})
	}
	return rows
}

func EquilibriumTable(pts []electro.EquilibriumPoint) [][]string {
	rows := [][]string{{"x", "y", "z", "residual", "iterations", "status", "method"}}
	for _, p := range pts {
		rows = append(rows, []string{
			fmtFloat(p.Point.X), fmtFloat(p.Point.Y), fmtFloat(p.Point.Z),
			fmtFloat(p.Residual), fmtInt(p.Iterations), p.Status.String(), p.Method,
		})
	}
	return rows
}

// LineTable flattens the lines to one row per polyline vertex.
func LineTable(lines []electro.FieldLine) [][]string {
	rows := [][]string{{"line", "origin", "direction", "reason", "point", "x", "y", "z"}}
	for n, l := range lines {
		for k, p := range l.Points {
			rows = append(rows, []string{
				fmtInt(n), fmtInt(l.Origin), l.Direction.String(), l.Reason.String(),
				fmtInt(k), fmtFloat(p.X), fmtFloat(p.Y), fmtFloat(p.Z),
			})
		}
	}
	return rows
}
