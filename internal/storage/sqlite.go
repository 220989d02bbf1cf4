// Package storage provides SQLite-based persistence for generated maps.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/sim"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run archive.
type Store struct {
	db *sql.DB
}

// Run is one archived map generation.
type Run struct {
	ID        int64
	Seed      int64
	Preset    string
	Wave      int
	Expected  int
	Corridors int
	Direct    int
	Merged    int
	Mutated   int
	Towers    int
	Credits   int
	Failures  int
	Cols      int
	Rows      int
	CreatedAt time.Time
}

// Corridor is one archived corridor of a run.
type Corridor struct {
	Index    int
	Zone     int
	Tier     int
	Junction int
	Mutation string
	Cells    []grid.Cell
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			wave INTEGER NOT NULL,
			expected INTEGER NOT NULL,
			corridors INTEGER NOT NULL,
			direct INTEGER NOT NULL,
			merged INTEGER NOT NULL,
			mutated INTEGER NOT NULL DEFAULT 0,
			towers INTEGER NOT NULL DEFAULT 0,
			credits INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS corridors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			zone INTEGER NOT NULL,
			tier INTEGER NOT NULL,
			junction INTEGER NOT NULL,
			mutation TEXT NOT NULL DEFAULT '',
			cells TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_corridors_run ON corridors(run_id, idx);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and its corridors in one transaction.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(r Run, corridors []Corridor) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (seed, preset, wave, expected, corridors, direct, merged,
		                   mutated, towers, credits, failures, width, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Seed, r.Preset, r.Wave, r.Expected, r.Corridors, r.Direct, r.Merged,
		r.Mutated, r.Towers, r.Credits, r.Failures, r.Cols, r.Rows,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, c := range corridors {
		_, err := tx.Exec(
			`INSERT INTO corridors (run_id, idx, zone, tier, junction, mutation, cells)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, c.Index, c.Zone, c.Tier, c.Junction, c.Mutation, EncodeCells(c.Cells),
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save corridor %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// SaveWorld archives the current state of a map.
func (s *Store) SaveWorld(w *sim.World, preset string) (int64, error) {
	sum := w.Summary()
	run := Run{
		Seed:      w.Seed(),
		Preset:    preset,
		Wave:      sum.Wave,
		Expected:  sum.Expected,
		Corridors: sum.Corridors,
		Direct:    sum.Direct,
		Merged:    sum.Merged,
		Mutated:   sum.Mutated,
		Towers:    sum.Towers,
		Credits:   sum.Credits,
		Failures:  sum.Failures,
		Cols:      sum.Cols,
		Rows:      sum.Rows,
	}

	corridors := make([]Corridor, len(w.Paths()))
	for i, p := range w.Paths() {
		corridors[i] = Corridor{
			Index:    i,
			Zone:     p.Zone,
			Tier:     p.Tier,
			Junction: p.Junction,
			Cells:    p.Cells,
		}
		if p.Mutation != nil {
			corridors[i].Mutation = p.Mutation.Name
		}
	}
	return s.SaveRun(run, corridors)
}

const runColumns = `id, seed, preset, wave, expected, corridors, direct, merged,
	mutated, towers, credits, failures, width, height, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var createdAt any
	err := row.Scan(
		&r.ID, &r.Seed, &r.Preset, &r.Wave, &r.Expected, &r.Corridors, &r.Direct, &r.Merged,
		&r.Mutated, &r.Towers, &r.Credits, &r.Failures, &r.Cols, &r.Rows, &createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunByID retrieves a single run.
func (s *Store) RunByID(id int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// Corridors retrieves the corridors of a run in placement order.
func (s *Store) Corridors(runID int64) ([]Corridor, error) {
	rows, err := s.db.Query(
		`SELECT idx, zone, tier, junction, mutation, cells
		 FROM corridors
		 WHERE run_id = ?
		 ORDER BY idx`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query corridors: %w", err)
	}
	defer rows.Close()

	var out []Corridor
	for rows.Next() {
		var c Corridor
		var cells string
		if err := rows.Scan(&c.Index, &c.Zone, &c.Tier, &c.Junction, &c.Mutation, &cells); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if c.Cells, err = DecodeCells(cells); err != nil {
			return nil, fmt.Errorf("storage: corridor %d: %w", c.Index, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run and its corridors.
func (s *Store) DeleteRun(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM corridors WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete corridors: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// EncodeCells packs cells as "c,r;c,r;...".
func EncodeCells(cells []grid.Cell) string {
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(c.C))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(c.R))
	}
	return sb.String()
}

// DecodeCells is the inverse of EncodeCells.
func DecodeCells(s string) ([]grid.Cell, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	cells := make([]grid.Cell, len(parts))
	for i, p := range parts {
		cs, rs, ok := strings.Cut(p, ",")
		if !ok {
			return nil, fmt.Errorf("malformed cell %q", p)
		}
		c, err := strconv.Atoi(cs)
		if err != nil {
			return nil, fmt.Errorf("malformed cell %q: %w", p, err)
		}
		r, err := strconv.Atoi(rs)
		if err != nil {
			return nil, fmt.Errorf("malformed cell %q: %w", p, err)
		}
		cells[i] = grid.At(c, r)
	}
	return cells, nil
}
