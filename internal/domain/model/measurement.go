// Package model contains domain models passed between layers.
package model

import "time"

// Measurement is a single dated growth sample for an athlete.
// The engine only ever reads measurements; it never mutates or stores them.
// Height and weight are optional: a nil pointer means the value was not
// recorded. Negative values are treated as absent by HeightValue/WeightValue
// so nonsensical inputs cannot propagate into derived numbers.
type Measurement struct {
	ID        string
	AthleteID string
	Date      time.Time // day precision
	HeightCM  *float64
	WeightKG  *float64
	Notes     string
}

// HeightValue returns the recorded height and whether it is usable.
func (m Measurement) HeightValue() (float64, bool) {
	if m.HeightCM == nil || *m.HeightCM < 0 {
		return 0, false
	}
	return *m.HeightCM, true
}

// WeightValue returns the recorded weight and whether it is usable.
func (m Measurement) WeightValue() (float64, bool) {
	if m.WeightKG == nil || *m.WeightKG < 0 {
		return 0, false
	}
	return *m.WeightKG, true
}

// Athlete identifies a tracked subject. BirthDate may be the zero value when
// the caller never supplied one; age-derived fields are then omitted.
type Athlete struct {
	ID        string
	BirthDate time.Time
}

// MeasurementEvent is the ingest payload flowing through the queue.
// EventID provides idempotency across retries.
type MeasurementEvent struct {
	EventID     string
	AthleteID   string
	Measurement Measurement
	BirthDate   time.Time // optional; zero when unknown
}

// Float64Ptr is a convenience for building optional fields.
func Float64Ptr(v float64) *float64 { return &v }
