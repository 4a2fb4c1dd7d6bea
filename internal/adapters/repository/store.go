// Package repository defines the measurement store interface and errors.
package repository

import (
	"context"

	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/model"
)

// Store provides read/write access to athlete measurement series and the
// latest computed analysis snapshots.
type Store interface {
	// PutAthlete inserts or updates an athlete record. A zero birth date
	// never overwrites a known one.
	PutAthlete(ctx context.Context, a model.Athlete) error

	// Athlete returns the athlete record, or ErrNotFound.
	Athlete(ctx context.Context, id string) (model.Athlete, error)

	// AddMeasurement appends a measurement to its athlete's series,
	// creating the athlete record if needed.
	AddMeasurement(ctx context.Context, m model.Measurement) error

	// Series returns the athlete's measurements in chronological order.
	// Unknown athletes yield ErrNotFound.
	Series(ctx context.Context, athleteID string) ([]model.Measurement, error)

	// SaveAnalysis stores the latest analysis snapshot for an athlete.
	SaveAnalysis(ctx context.Context, a analysis.Analysis) error

	// Analysis returns the latest snapshot, or ErrNotFound when none has
	// been computed.
	Analysis(ctx context.Context, athleteID string) (analysis.Analysis, error)

	// AthleteCount returns the number of athletes tracked.
	AthleteCount(ctx context.Context) int

	// MeasurementCount returns the total number of stored measurements.
	MeasurementCount(ctx context.Context) int

	// Close releases any underlying resources.
	Close() error
}
