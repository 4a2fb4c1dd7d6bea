package growth

import (
	"time"

	"github.com/athlytics/stature/internal/domain/model"
)

// Velocity is the growth rate derived from two dated height samples.
// It is ephemeral: recomputed on demand, never persisted.
type Velocity struct {
	From         time.Time
	To           time.Time
	FromHeightCM float64
	ToHeightCM   float64
	DeltaCM      float64
	Days         float64
	CMPerDay     float64
	CMPerYear    float64
	Midpoint     time.Time
}

// VelocityBetween computes the growth velocity between an earlier and a
// later measurement. Both measurements must carry a usable height; the day
// span is floored at 1.0 by DaysBetween. The raw velocity is reported
// unclamped: plausibility filtering and capping belong to the PHV estimator.
func VelocityBetween(earlier, later model.Measurement) (Velocity, bool) {
	fromHeight, ok := earlier.HeightValue()
	if !ok {
		return Velocity{}, false
	}
	toHeight, ok := later.HeightValue()
	if !ok {
		return Velocity{}, false
	}

	days := DaysBetween(earlier.Date, later.Date)
	delta := toHeight - fromHeight
	perDay := delta / days

	return Velocity{
		From:         earlier.Date,
		To:           later.Date,
		FromHeightCM: fromHeight,
		ToHeightCM:   toHeight,
		DeltaCM:      delta,
		Days:         days,
		CMPerDay:     perDay,
		CMPerYear:    perDay * DaysPerYear,
		Midpoint:     Midpoint(earlier.Date, later.Date),
	}, true
}
