package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/pkg/metrics"
)

const dateLayout = "2006-01-02"

// SQLiteStore implements Store on a SQLite database. Measurement dates are
// stored day-precision as ISO strings; analysis snapshots are stored as a
// JSON document keyed by athlete.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) a SQLite-backed store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an existing database handle (used by tests with
// :memory: databases).
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	// WAL improves concurrent reader behavior under the ingest workers.
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS athlete (
		id TEXT PRIMARY KEY,
		birth_date TEXT
	);

	CREATE TABLE IF NOT EXISTS measurement (
		id TEXT PRIMARY KEY,
		athlete_id TEXT NOT NULL,
		date TEXT NOT NULL,
		height_cm REAL,
		weight_kg REAL,
		notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (athlete_id) REFERENCES athlete(id)
	);
	CREATE INDEX IF NOT EXISTS idx_measurement_athlete
		ON measurement(athlete_id, date);

	CREATE TABLE IF NOT EXISTS analysis_snapshot (
		athlete_id TEXT PRIMARY KEY,
		computed_at TEXT NOT NULL,
		payload TEXT NOT NULL,
		FOREIGN KEY (athlete_id) REFERENCES athlete(id)
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PutAthlete inserts or updates an athlete record.
func (s *SQLiteStore) PutAthlete(ctx context.Context, a model.Athlete) error {
	if a.ID == "" {
		return ErrInvalidData
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO athlete (id, birth_date) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   birth_date = COALESCE(excluded.birth_date, athlete.birth_date)`,
		a.ID, nullDate(a.BirthDate))
	if err != nil {
		return fmt.Errorf("put athlete: %w", err)
	}
	return nil
}

// Athlete returns the athlete record, or ErrNotFound.
func (s *SQLiteStore) Athlete(ctx context.Context, id string) (model.Athlete, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, birth_date FROM athlete WHERE id = ?`, id)

	var a model.Athlete
	var birth sql.NullString
	if err := row.Scan(&a.ID, &birth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Athlete{}, ErrNotFound
		}
		return model.Athlete{}, fmt.Errorf("query athlete: %w", err)
	}
	if birth.Valid {
		a.BirthDate, _ = time.Parse(dateLayout, birth.String)
	}
	return a, nil
}

// AddMeasurement appends a measurement, creating the athlete row if needed.
func (s *SQLiteStore) AddMeasurement(ctx context.Context, m model.Measurement) error {
	if m.AthleteID == "" || m.Date.IsZero() {
		return ErrInvalidData
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := s.PutAthlete(ctx, model.Athlete{ID: m.AthleteID}); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO measurement (id, athlete_id, date, height_cm, weight_kg, notes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		m.ID, m.AthleteID, m.Date.Format(dateLayout),
		nullFloat(m.HeightCM), nullFloat(m.WeightKG), m.Notes)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

// Series returns the athlete's measurements in chronological order.
func (s *SQLiteStore) Series(ctx context.Context, athleteID string) ([]model.Measurement, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if _, err := s.Athlete(ctx, athleteID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, athlete_id, date, height_cm, weight_kg, notes
		 FROM measurement WHERE athlete_id = ? ORDER BY date ASC`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var series []model.Measurement
	for rows.Next() {
		var m model.Measurement
		var date string
		var height, weight sql.NullFloat64
		if err := rows.Scan(&m.ID, &m.AthleteID, &date, &height, &weight, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		m.Date, _ = time.Parse(dateLayout, date)
		if height.Valid {
			m.HeightCM = model.Float64Ptr(height.Float64)
		}
		if weight.Valid {
			m.WeightKG = model.Float64Ptr(weight.Float64)
		}
		series = append(series, m)
	}
	return series, rows.Err()
}

// SaveAnalysis stores the latest analysis snapshot as a JSON document.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a analysis.Analysis) error {
	if a.AthleteID == "" {
		return ErrInvalidData
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := s.PutAthlete(ctx, model.Athlete{ID: a.AthleteID}); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_snapshot (athlete_id, computed_at, payload)
		 VALUES (?, ?, ?)
		 ON CONFLICT(athlete_id) DO UPDATE SET
		   computed_at=excluded.computed_at, payload=excluded.payload`,
		a.AthleteID, a.ComputedAt.Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// Analysis returns the latest snapshot, or ErrNotFound/ErrNoAnalysis.
func (s *SQLiteStore) Analysis(ctx context.Context, athleteID string) (analysis.Analysis, error) {
	if _, err := s.Athlete(ctx, athleteID); err != nil {
		return analysis.Analysis{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM analysis_snapshot WHERE athlete_id = ?`, athleteID)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return analysis.Analysis{}, ErrNoAnalysis
		}
		return analysis.Analysis{}, fmt.Errorf("query analysis: %w", err)
	}
	var a analysis.Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return a, nil
}

// AthleteCount returns the number of athletes tracked.
func (s *SQLiteStore) AthleteCount(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM athlete`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// MeasurementCount returns the total number of stored measurements.
func (s *SQLiteStore) MeasurementCount(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM measurement`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func nullDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
