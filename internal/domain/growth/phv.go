package growth

import (
	"sort"
	"time"

	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/pkg/metrics"
)

// PHV estimation constants. These encode pediatric growth-science
// assumptions; do not fold or simplify them.
const (
	// MinIntervalDays is the shortest span considered reliable for a
	// velocity sample. Shorter intervals amplify measurement noise.
	MinIntervalDays = 30.0

	// MaxPlausibleCMPerYear excludes an interval entirely: anything faster
	// is treated as measurement error, not growth.
	MaxPlausibleCMPerYear = 15.0

	// MaxPeakCMPerYear caps the winning velocity. This is a second,
	// independent guard applied after the plausibility filter.
	MaxPeakCMPerYear = 12.0
)

// Source records how a Result was produced.
type Source string

const (
	// SourceMeasured means the result came from interval analysis of
	// at least two height measurements.
	SourceMeasured Source = "measured"
	// SourceEstimated means the result came from the age-only fallback
	// heuristic and carries lower confidence.
	SourceEstimated Source = "estimated"
)

// Result is a peak-height-velocity estimate.
type Result struct {
	// Date is the temporal midpoint of the winning interval. Zero when an
	// estimated result had no birth date to anchor against.
	Date time.Time
	// Age is the fractional age at Date; nil when no birth date was given.
	Age *float64
	// VelocityCMPerYear is the peak velocity after capping, in [0, 12].
	VelocityCMPerYear float64
	VelocityCMPerDay  float64
	// MeasurementsUsed counts the height-bearing samples considered.
	MeasurementsUsed int
	// ValidIntervals counts intervals surviving the plausibility filter.
	ValidIntervals int
	// Intervals carries every surviving interval for transparency.
	Intervals []Velocity
	// Capped reports whether the winning velocity exceeded MaxPeakCMPerYear
	// and was reduced to it.
	Capped bool
	Source Source
}

// EstimatePHV derives a peak-height-velocity estimate from a measurement
// series. Input order does not matter; the series is sorted by date first.
// Returns false when fewer than two height-bearing samples exist or no
// interval survives filtering; callers should then fall back to
// EstimatePHVFromAge.
func EstimatePHV(measurements []model.Measurement, birth time.Time) (Result, bool) {
	usable := withHeights(measurements)
	if len(usable) < 2 {
		return Result{}, false
	}

	sort.Slice(usable, func(i, j int) bool {
		return usable[i].Date.Before(usable[j].Date)
	})

	// Consecutive pairs only; all-pairs comparison would double-count
	// overlapping spans.
	kept := make([]Velocity, 0, len(usable)-1)
	for i := 1; i < len(usable); i++ {
		v, ok := VelocityBetween(usable[i-1], usable[i])
		if !ok {
			continue
		}
		if v.Days < MinIntervalDays {
			metrics.RecordIntervalDiscarded("short_interval")
			continue
		}
		if v.CMPerYear > MaxPlausibleCMPerYear {
			metrics.RecordIntervalDiscarded("implausible_velocity")
			continue
		}
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		return Result{}, false
	}

	peak := kept[0]
	for _, v := range kept[1:] {
		if v.CMPerYear > peak.CMPerYear {
			peak = v
		}
	}

	annual := peak.CMPerYear
	capped := false
	if annual > MaxPeakCMPerYear {
		annual = MaxPeakCMPerYear
		capped = true
	}
	if annual < 0 {
		annual = 0
	}

	res := Result{
		Date:              peak.Midpoint,
		VelocityCMPerYear: annual,
		VelocityCMPerDay:  annual / DaysPerYear,
		MeasurementsUsed:  len(usable),
		ValidIntervals:    len(kept),
		Intervals:         kept,
		Capped:            capped,
		Source:            SourceMeasured,
	}
	if !birth.IsZero() {
		age := AgeAt(birth, peak.Midpoint)
		res.Age = &age
	}
	return res, true
}

// withHeights filters to measurements carrying a usable height value.
func withHeights(measurements []model.Measurement) []model.Measurement {
	usable := make([]model.Measurement, 0, len(measurements))
	for _, m := range measurements {
		if _, ok := m.HeightValue(); ok {
			usable = append(usable, m)
		}
	}
	return usable
}
