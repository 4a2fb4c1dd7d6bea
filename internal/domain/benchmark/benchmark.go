// Package benchmark rates youth-athlete physical metrics against age-banded
// elite percentile tables. Lookup and comparison are stateless; the tables
// are read-only reference data.
package benchmark

// Direction states whether larger or smaller raw values are better for a
// metric. Agility times, for example, improve downward.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// Rating buckets a raw value against the percentile thresholds.
type Rating string

const (
	RatingElite        Rating = "Elite"        // at or beyond the 95th percentile
	RatingExcellent    Rating = "Excellent"    // 75th
	RatingGood         Rating = "Good"         // 50th
	RatingAverage      Rating = "Average"      // 25th
	RatingBelowAverage Rating = "Below Average"
)

// Percentiles holds the 95th/75th/50th/25th thresholds for one metric in
// one age band, expressed in that metric's unit.
type Percentiles struct {
	P95 float64 `json:"p95"`
	P75 float64 `json:"p75"`
	P50 float64 `json:"p50"`
	P25 float64 `json:"p25"`
}

// BMIRange is the optimal range for elite players in an age band.
type BMIRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Benchmark is the full reference table for one age band.
type Benchmark struct {
	AgeBand        string      `json:"age_band"`
	HeightCM       Percentiles `json:"height_cm"`
	SprintSpeedMS  Percentiles `json:"sprint_speed_m_s"`
	VerticalJumpCM Percentiles `json:"vertical_jump_cm"`
	AgilitySec     Percentiles `json:"agility_seconds"` // lower is better
	OptimalBMI     BMIRange    `json:"optimal_bmi"`
}

// ForAge selects the benchmark table for a fractional age. Bands are
// half-open upper bounds (<10, <11, ... <18); anything else is Senior.
func ForAge(age float64) Benchmark {
	for _, band := range bands {
		if age < band.upperAge {
			return band.table
		}
	}
	return seniorBand
}

// Compare buckets a raw value against percentile thresholds. Higher-is-better
// metrics use >= semantics; lower-is-better metrics (times) use <=.
func Compare(value float64, p Percentiles, dir Direction) Rating {
	meets := func(threshold float64) bool {
		if dir == LowerIsBetter {
			return value <= threshold
		}
		return value >= threshold
	}
	switch {
	case meets(p.P95):
		return RatingElite
	case meets(p.P75):
		return RatingExcellent
	case meets(p.P50):
		return RatingGood
	case meets(p.P25):
		return RatingAverage
	default:
		return RatingBelowAverage
	}
}
