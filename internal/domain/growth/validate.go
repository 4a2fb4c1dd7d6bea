package growth

import (
	"sort"

	"github.com/athlytics/stature/internal/domain/model"
)

// Validator thresholds.
const (
	// minSpanDays is the shortest series span that supports confident peak
	// detection: under a year the peak may fall outside the window.
	minSpanDays = DaysPerYear

	// sparseIntervalDays flags series whose average gap between samples is
	// too wide to localize the peak precisely.
	sparseIntervalDays = 180.0
)

// Verdict is advisory guidance on whether a series supports reliable PHV
// estimation. It never blocks calculation; it only informs the caller.
type Verdict struct {
	Valid            bool
	Warning          bool
	Message          string
	Measurements     int
	SpanDays         float64
	MeanIntervalDays float64
}

// ValidateSeries assesses measurement density and span for PHV estimation.
func ValidateSeries(measurements []model.Measurement) Verdict {
	usable := withHeights(measurements)
	if len(usable) < 2 {
		return Verdict{
			Valid:        false,
			Message:      "at least two dated height measurements are required for velocity analysis",
			Measurements: len(usable),
		}
	}

	sort.Slice(usable, func(i, j int) bool {
		return usable[i].Date.Before(usable[j].Date)
	})

	span := DaysBetween(usable[0].Date, usable[len(usable)-1].Date)
	meanInterval := span / float64(len(usable)-1)

	v := Verdict{
		Valid:            true,
		Measurements:     len(usable),
		SpanDays:         span,
		MeanIntervalDays: meanInterval,
	}
	switch {
	case span < minSpanDays:
		v.Warning = true
		v.Message = "series spans less than one year; the growth peak may fall outside the observed window"
	case meanInterval > sparseIntervalDays:
		v.Warning = true
		v.Message = "sparse measurement frequency (average interval exceeds 180 days); peak timing will be imprecise"
	}
	return v
}
