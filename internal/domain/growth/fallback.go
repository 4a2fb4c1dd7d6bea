package growth

import "time"

// Fallback heuristic constants (population averages, not data-driven).
const (
	// DefaultPHVAge is the assumed peak age when the current age gives no
	// better anchor.
	DefaultPHVAge = 13.5

	// Ages past lateAgeCutoff assume PHV already happened lateOffset years
	// ago; ages under earlyAgeCutoff assume it is earlyOffset years ahead.
	lateAgeCutoff  = 15.0
	earlyAgeCutoff = 11.0
	lateOffset     = 1.5
	earlyOffset    = 2.0

	// FallbackPeakCMPerYear is the assumed peak velocity for estimated
	// results.
	FallbackPeakCMPerYear = 9.5
)

// EstimatePHVFromAge produces an age-only PHV estimate for subjects with
// fewer than two height measurements. The result is explicitly
// lower-confidence (Source == SourceEstimated); prefer EstimatePHV whenever
// it succeeds.
func EstimatePHVFromAge(currentAge float64, birth time.Time) Result {
	estimatedAge := DefaultPHVAge
	switch {
	case currentAge > lateAgeCutoff:
		estimatedAge = currentAge - lateOffset
	case currentAge > 0 && currentAge < earlyAgeCutoff:
		estimatedAge = currentAge + earlyOffset
	}

	res := Result{
		Age:               &estimatedAge,
		VelocityCMPerYear: FallbackPeakCMPerYear,
		VelocityCMPerDay:  FallbackPeakCMPerYear / DaysPerYear,
		Source:            SourceEstimated,
	}
	if !birth.IsZero() {
		offset := time.Duration(estimatedAge * DaysPerYear * float64(hoursPerDay) * float64(time.Hour))
		res.Date = birth.Add(offset)
	}
	return res
}
