// Package storage persists experiment reports as run directories, exports
// them as JSON, and indexes them in a SQLite catalog.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/experiment"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	metadataFile   = "metadata.json"
	chargesFile    = "charges.csv"
	forcesFile     = "forces.csv"
	linesFile      = "field_lines.csv"
	equilibriaFile = "equilibria.csv"
	samplesFile    = "samples.csv"
	reportFile     = "report.json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Timestamp    time.Time      `json:"timestamp"`
	Unit         string         `json:"unit"`
	Charges      int            `json:"charges"`
	TotalCharge  float64        `json:"total_charge"`
	Energy       float64        `json:"energy"`
	FieldEnergy  float64        `json:"field_energy"`
	Lines        int            `json:"lines"`
	Terminations map[string]int `json:"terminations"`
	Equilibria   int            `json:"equilibria"`
	Samples      int            `json:"samples"`
	Elapsed      time.Duration  `json:"elapsed"`
}

// Metadata summarizes a report under the given run id.
func Metadata(id string, r *experiment.Report) RunMetadata {
	terms := make(map[string]int)
	for reason, n := range r.LineSummary() {
		terms[reason.String()] = n
	}
	return RunMetadata{
		ID:           id,
		Name:         r.Name,
		Timestamp:    r.CreatedAt,
		Unit:         r.Unit,
		Charges:      len(r.Charges),
		TotalCharge:  r.TotalCharge,
		Energy:       r.Energy.Total,
		FieldEnergy:  r.FieldEnergy,
		Lines:        len(r.Lines),
		Terminations: terms,
		Equilibria:   len(r.Equilibria),
		Samples:      len(r.Samples),
		Elapsed:      r.Elapsed,
	}
}

// Save writes the report to a new run directory and returns its id.
func (s *Store) Save(r *experiment.Report) (string, error) {
	runID := NewRunID(r.CreatedAt)
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Metadata(runID, r)); err != nil {
		return "", err
	}

	if err := ExportJSONFile(filepath.Join(runDir, reportFile), r); err != nil {
		return "", fmt.Errorf("write %s: %w", reportFile, err)
	}

	tables := []struct {
		name string
		rows [][]string
	}{
		{chargesFile, ChargeTable(r.Charges)},
		{forcesFile, ForceTable(r.Pairwise)},
		{linesFile, LineTable(r.Lines)},
		{equilibriaFile, EquilibriumTable(r.Equilibria)},
		{samplesFile, SampleTable(r.Samples)},
	}
	for _, t := range tables {
		if err := writeCSV(filepath.Join(runDir, t.name), t.rows); err != nil {
			return "", fmt.Errorf("write %s: %w", t.name, err)
		}
	}
	return runID, nil
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadReport reads back the full report saved with a run.
func (s *Store) LoadReport(runID string) (*experiment.Report, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, reportFile))
	if err != nil {
		return nil, err
	}
	var r experiment.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", reportFile, err)
	}
	return &r, nil
}

// LoadTable reads one of a run's CSV tables, header row included.
func (s *Store) LoadTable(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return csv.NewReader(file).ReadAll()
}

// LoadLines rebuilds the field lines of a run from its CSV table.
func (s *Store) LoadLines(runID string) ([]electro.FieldLine, error) {
	records, err := s.LoadTable(runID, linesFile)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []electro.FieldLine{}, nil
	}

	var lines []electro.FieldLine
	current := -1
	for n, rec := range records[1:] {
		if len(rec) != 8 {
			return nil, fmt.Errorf("%s row %d: %d fields", linesFile, n+1, len(rec))
		}
		idx, err1 := strconv.Atoi(rec[0])
		origin, err2 := strconv.Atoi(rec[1])
		x, err3 := strconv.ParseFloat(rec[5], 64)
		y, err4 := strconv.ParseFloat(rec[6], 64)
		z, err5 := strconv.ParseFloat(rec[7], 64)
		if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", linesFile, n+1, err)
		}
		p := r3.Vec{X: x, Y: y, Z: z}

		if idx != current {
			var l electro.FieldLine
			if err := l.Direction.UnmarshalText([]byte(rec[2])); err != nil {
				return nil, err
			}
			if err := l.Reason.UnmarshalText([]byte(rec[3])); err != nil {
				return nil, err
			}
			l.Origin, l.Seed = origin, p
			lines = append(lines, l)
			current = idx
		}
		l := &lines[len(lines)-1]
		if len(l.Points) > 0 {
			l.Length += r3.Norm(r3.Sub(p, l.Points[len(l.Points)-1]))
			l.Steps++
		}
		l.Points = append(l.Points, p)
	}
	return lines, nil
}
