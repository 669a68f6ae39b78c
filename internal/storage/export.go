package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/chargefield/internal/experiment"
)

// ExportJSON writes the whole report as indented JSON.
func ExportJSON(w io.Writer, r *experiment.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ExportJSONFile is ExportJSON to a new file at path.
func ExportJSONFile(path string, r *experiment.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, r); err != nil {
		return err
	}
	return file.Close()
}
