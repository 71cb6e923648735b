package lightcurve

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite photometry database. Curves are stored one row
// per observation, keyed by star and filter, so a star can carry an
// independent light curve in every passband.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS filters (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS stars (
			id    INTEGER PRIMARY KEY,
			class TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS photometry (
			star_id   INTEGER NOT NULL REFERENCES stars(id) ON DELETE CASCADE,
			filter_id INTEGER NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
			time      REAL NOT NULL,
			mag       REAL NOT NULL,
			snr       REAL NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_photometry_star_filter
			ON photometry(star_id, filter_id, time)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddFilter registers a photometric filter. Adding a filter twice is a
// no-op.
func (s *Store) AddFilter(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("filter name must not be empty")
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO filters (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("failed to insert filter: %w", err)
	}
	return nil
}

// Filters returns the registered filter names in registration order.
func (s *Store) Filters(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM filters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query filters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan filter: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddStar registers a star and its variability class label. Stars used
// only for prediction carry an empty class.
func (s *Store) AddStar(ctx context.Context, id int, class string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO stars (id, class) VALUES (?, ?)`, id, class); err != nil {
		return fmt.Errorf("failed to insert star: %w", err)
	}
	return nil
}

// Stars returns all star identifiers with their class labels, ordered
// by identifier. The two slices are parallel.
func (s *Store) Stars(ctx context.Context) ([]int, []string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, class FROM stars ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query stars: %w", err)
	}
	defer rows.Close()

	var ids []int
	var classes []string
	for rows.Next() {
		var id int
		var class string
		if err := rows.Scan(&id, &class); err != nil {
			return nil, nil, fmt.Errorf("failed to scan star: %w", err)
		}
		ids = append(ids, id)
		classes = append(classes, class)
	}
	return ids, classes, rows.Err()
}

// AddObservations appends a light curve for one star in one filter. The
// filter must have been registered first. SNR values are optional; when
// absent they are stored as zero.
func (s *Store) AddObservations(ctx context.Context, starID int, filterName string, curve *LightCurve) error {
	if len(curve.Times) != len(curve.Mags) {
		return fmt.Errorf("times and magnitudes differ in length: %d vs %d",
			len(curve.Times), len(curve.Mags))
	}
	if curve.SNRs != nil && len(curve.SNRs) != len(curve.Times) {
		return fmt.Errorf("snr series differs in length: %d vs %d",
			len(curve.SNRs), len(curve.Times))
	}

	filterID, err := s.filterID(ctx, filterName)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO photometry (star_id, filter_id, time, mag, snr) VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range curve.Times {
		snr := 0.0
		if curve.SNRs != nil {
			snr = curve.SNRs[i]
		}
		if _, err := stmt.ExecContext(ctx, starID, filterID, curve.Times[i], curve.Mags[i], snr); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}
	return tx.Commit()
}

// Curve loads one star's light curve in one filter, ordered by time. A
// star with no observations yields an empty curve, which the extraction
// pipeline rejects as invalid input; an unknown filter is an error.
func (s *Store) Curve(ctx context.Context, filterName string, starID int) (*LightCurve, error) {
	filterID, err := s.filterID(ctx, filterName)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT time, mag, snr FROM photometry
		WHERE star_id = ? AND filter_id = ?
		ORDER BY time`, starID, filterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	curve := &LightCurve{}
	for rows.Next() {
		var t, mag, snr float64
		if err := rows.Scan(&t, &mag, &snr); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		curve.Times = append(curve.Times, t)
		curve.Mags = append(curve.Mags, mag)
		curve.SNRs = append(curve.SNRs, snr)
	}
	return curve, rows.Err()
}

func (s *Store) filterID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM filters WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("unknown filter: %s", name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up filter: %w", err)
	}
	return id, nil
}
