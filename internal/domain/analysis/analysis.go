// Package analysis composes the growth engine into a single per-athlete
// report: series validation, PHV estimation (with the age-only fallback),
// and adult-height prediction.
package analysis

import (
	"time"

	"github.com/athlytics/stature/internal/domain/growth"
	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/internal/domain/predict"
	"github.com/athlytics/stature/pkg/metrics"
)

// Analysis is the full growth report for one athlete at one point in time.
// Nil sub-results mean the corresponding computation had no usable input.
type Analysis struct {
	AthleteID    string
	ComputedAt   time.Time
	Measurements int
	Verdict      growth.Verdict
	PHV          *growth.Result
	Prediction   *predict.Prediction
}

// Run computes a full growth analysis for a measurement series. birth may be
// the zero value; age-derived fields are then omitted. The input series is
// only read, never mutated.
func Run(athleteID string, series []model.Measurement, birth time.Time) Analysis {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	}()

	a := Analysis{
		AthleteID:    athleteID,
		ComputedAt:   time.Now().UTC(),
		Measurements: len(series),
		Verdict:      growth.ValidateSeries(series),
	}

	phv, ok := growth.EstimatePHV(series, birth)
	if !ok {
		// Fewer than two usable heights: fall back to the age heuristic,
		// anchored on the most recent dated sample when one exists.
		currentAge := 0.0
		if latest, found := latestDated(series); found && !birth.IsZero() {
			currentAge = growth.AgeAt(birth, latest.Date)
		}
		phv = growth.EstimatePHVFromAge(currentAge, birth)
		metrics.RecordPHVFallback()
	}
	if phv.Capped {
		metrics.RecordVelocityCapApplied()
	}
	a.PHV = &phv

	if pred, ok := predict.AdultHeight(series,
		predict.WithBirthDate(birth),
		predict.WithPHV(phv),
	); ok {
		a.Prediction = &pred
		for _, method := range pred.MethodsUsed {
			metrics.RecordPredictionMethod(method)
		}
	}

	metrics.RecordAnalysisComputed()
	return a
}

// latestDated returns the most recent measurement carrying a date.
func latestDated(series []model.Measurement) (model.Measurement, bool) {
	var latest model.Measurement
	var found bool
	for _, m := range series {
		if m.Date.IsZero() {
			continue
		}
		if !found || m.Date.After(latest.Date) {
			latest = m
			found = true
		}
	}
	return latest, found
}
