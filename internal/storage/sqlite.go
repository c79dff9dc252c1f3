// Package storage provides SQLite-based persistence for sweep results and
// played strokes. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/minigolf/internal/sim"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SweepSummary is a stored sweep without its samples.
type SweepSummary struct {
	ID          string
	HoleName    string
	Fingerprint uint64
	SurfaceSize float64
	Step        float64
	Workers     int
	Made        int
	Samples     int
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// MakeRate is the fraction of holed putts.
func (s SweepSummary) MakeRate() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Made) / float64(s.Samples)
}

// StrokeEntry is one played hole.
type StrokeEntry struct {
	ID        int64
	HoleName  string
	Player    string
	Strokes   int
	Holed     bool
	CreatedAt time.Time
}

// HoleStats contains aggregated play statistics for a hole.
type HoleStats struct {
	HoleName    string
	Rounds      int
	Holed       int
	BestStrokes int
	AvgStrokes  float64
	LastPlayed  time.Time
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
		CREATE TABLE IF NOT EXISTS sweeps (
			id TEXT PRIMARY KEY,
			hole_name TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			surface_size REAL NOT NULL,
			step REAL NOT NULL,
			workers INTEGER NOT NULL,
			made INTEGER NOT NULL,
			samples INTEGER NOT NULL,
			distances BLOB NOT NULL,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sweeps_lookup ON sweeps(fingerprint, surface_size, step);

		CREATE TABLE IF NOT EXISTS strokes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hole_name TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			strokes INTEGER NOT NULL,
			holed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_strokes_hole ON strokes(hole_name, strokes);
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

// SaveSweep records a completed sweep with all of its samples.
func (s *Store) SaveSweep(res *sim.Result) error {
	created := res.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO sweeps
		 (id, hole_name, fingerprint, surface_size, step, workers, made, samples, distances, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.Hole,
		formatFingerprint(res.Fingerprint),
		res.Grid.Size,
		res.Grid.Step,
		res.Workers,
		res.Made,
		len(res.Distances),
		encodeDistances(res.Distances),
		res.Elapsed.Milliseconds(),
		created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save sweep: %w", err)
	}
	return nil
}

const sweepColumns = `id, hole_name, fingerprint, surface_size, step, workers, made, samples, elapsed_ms, created_at`

// SweepByID retrieves a full sweep. Returns nil if it does not exist.
func (s *Store) SweepByID(id string) (*sim.Result, error) {
	row := s.db.QueryRow(
		`SELECT `+sweepColumns+`, distances FROM sweeps WHERE id = ?`,
		id,
	)
	return scanResult(row)
}

// LatestSweep retrieves the newest sweep of the given hole geometry on the
// given grid. Returns nil if none exists.
func (s *Store) LatestSweep(fingerprint uint64, grid sim.Grid) (*sim.Result, error) {
	row := s.db.QueryRow(
		`SELECT `+sweepColumns+`, distances FROM sweeps
		 WHERE fingerprint = ? AND surface_size = ? AND step = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT 1`,
		formatFingerprint(fingerprint), grid.Size, grid.Step,
	)
	return scanResult(row)
}

// RecentSweeps lists the most recent sweeps, newest first.
func (s *Store) RecentSweeps(limit int) ([]SweepSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sweepColumns+` FROM sweeps
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sweeps: %w", err)
	}
	defer rows.Close()

	var out []SweepSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner, extra ...any) (SweepSummary, error) {
	var sum SweepSummary
	var fp string
	var elapsedMS int64
	var createdAt any

	dest := append([]any{
		&sum.ID, &sum.HoleName, &fp, &sum.SurfaceSize, &sum.Step,
		&sum.Workers, &sum.Made, &sum.Samples, &elapsedMS, &createdAt,
	}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return sum, err
	}

	sum.Fingerprint = parseFingerprint(fp)
	sum.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	sum.CreatedAt = parseTimestamp(createdAt)
	return sum, nil
}

func scanResult(row *sql.Row) (*sim.Result, error) {
	var blob []byte
	sum, err := scanSummary(row, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sweep: %w", err)
	}

	distances, err := decodeDistances(blob)
	if err != nil {
		return nil, err
	}
	if len(distances) != sum.Samples {
		return nil, fmt.Errorf("storage: sweep %s has %d samples, expected %d", sum.ID, len(distances), sum.Samples)
	}

	return &sim.Result{
		ID:          sum.ID,
		Hole:        sum.HoleName,
		Fingerprint: sum.Fingerprint,
		Grid:        sim.Grid{Size: sum.SurfaceSize, Step: sum.Step},
		Workers:     sum.Workers,
		Distances:   distances,
		Made:        sum.Made,
		Elapsed:     sum.Elapsed,
		CreatedAt:   sum.CreatedAt,
	}, nil
}

// SaveStrokes records a played hole. Returns the ID of the inserted record.
func (s *Store) SaveStrokes(e StrokeEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO strokes (hole_name, player, strokes, holed) VALUES (?, ?, ?, ?)",
		e.HoleName, e.Player, e.Strokes, e.Holed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save strokes: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestStrokes retrieves the best N holed rounds for the given hole, fewest
// strokes first.
func (s *Store) BestStrokes(hole string, limit int) ([]StrokeEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, hole_name, player, strokes, holed, created_at
		 FROM strokes
		 WHERE hole_name = ? AND holed = 1
		 ORDER BY strokes ASC, id ASC
		 LIMIT ?`,
		hole, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query strokes: %w", err)
	}
	defer rows.Close()

	var entries []StrokeEntry
	for rows.Next() {
		var e StrokeEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.HoleName, &e.Player, &e.Strokes, &e.Holed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HoleStats retrieves aggregated play statistics for a specific hole.
func (s *Store) HoleStats(hole string) (*HoleStats, error) {
	stats := &HoleStats{HoleName: hole}

	var best sql.NullInt64
	var avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(holed), 0),
		        MIN(CASE WHEN holed = 1 THEN strokes END),
		        AVG(CASE WHEN holed = 1 THEN strokes END)
		 FROM strokes WHERE hole_name = ?`,
		hole,
	).Scan(&stats.Rounds, &stats.Holed, &best, &avg)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get hole stats: %w", err)
	}
	if best.Valid {
		stats.BestStrokes = int(best.Int64)
	}
	if avg.Valid {
		stats.AvgStrokes = avg.Float64
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM strokes WHERE hole_name = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		hole,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func formatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

func parseFingerprint(s string) uint64 {
	fp, _ := strconv.ParseUint(s, 16, 64)
	return fp
}

// encodeDistances packs samples as little-endian float64.
func encodeDistances(ds []float64) []byte {
	buf := make([]byte, 8*len(ds))
	for i, d := range ds {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(d))
	}
	return buf
}

func decodeDistances(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("storage: distances blob has %d bytes, not a multiple of 8", len(buf))
	}
	ds := make([]float64, len(buf)/8)
	for i := range ds {
		ds[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return ds, nil
}
