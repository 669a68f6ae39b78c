package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	charges INTEGER NOT NULL,
	energy REAL NOT NULL,
	field_energy REAL NOT NULL,
	lines INTEGER NOT NULL,
	equilibria INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
`

var ErrRunNotFound = errors.New("storage: run not found")

// Catalog indexes saved runs in SQLite so they can be queried without
// walking the run directories.
type Catalog struct {
	db *sql.DB
}

func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Record inserts or replaces the catalog row for a run.
func (c *Catalog) Record(ctx context.Context, m RunMetadata) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
		(id, name, charges, energy, field_energy, lines, equilibria, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Charges, m.Energy, m.FieldEnergy, m.Lines, m.Equilibria, m.Timestamp.UTC(),
	)
	return err
}

func (c *Catalog) Get(ctx context.Context, id string) (RunMetadata, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, name, charges, energy, field_energy, lines, equilibria, created_at
		FROM runs WHERE id = ?`, id)
	m, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunMetadata{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return m, err
}

// List returns catalogued runs, newest first. An empty name matches all.
func (c *Catalog) List(ctx context.Context, name string) ([]RunMetadata, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, charges, energy, field_energy, lines, equilibria, created_at
		FROM runs WHERE ? = '' OR name = ?
		ORDER BY created_at DESC, id DESC`, name, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunMetadata
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunMetadata, error) {
	var (
		m       RunMetadata
		created time.Time
	)
	if err := s.Scan(&m.ID, &m.Name, &m.Charges, &m.Energy, &m.FieldEnergy, &m.Lines, &m.Equilibria, &created); err != nil {
		return RunMetadata{}, err
	}
	m.Timestamp = created.UTC()
	return m, nil
}
