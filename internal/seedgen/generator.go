// Package seedgen generates realistic adolescent growth series and pushes
// them through the HTTP ingest path, then verifies analyses were produced.
package seedgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/athlytics/stature/pkg/logger"
	"github.com/google/uuid"
)

// Random generation constants.
const (
	randomFloatDivisor = 1000000
)

// Growth-curve generation constants. Values approximate population norms
// for adolescent stature so the generated series look like real clinic data.
const (
	minStartAge   = 9.0
	startAgeRange = 3.0 // start between 9 and 12 years old

	minSamples   = 5
	sampleRange  = 6 // 5 to 10 samples per athlete
	intervalDays = 120
	jitterDays   = 30

	baseHeightAt9  = 132.0 // cm, mean height at age nine
	baseHeightVar  = 10.0
	prePeakRate    = 5.0 // cm/yr before the spurt
	peakRate       = 9.5 // cm/yr at the spurt
	postPeakRate   = 2.0 // cm/yr winding down
	spurtAgeMin    = 11.5
	spurtAgeRange  = 2.5 // spurt centered between 11.5 and 14
	spurtHalfWidth = 1.0 // years on each side of the center

	baseWeightAt9 = 29.0 // kg
	weightVar     = 6.0
	weightPerCM   = 0.55 // rough kg gained per cm during adolescence

	measurementNoiseCM = 0.4
	daysPerYear        = 365.25
)

// athleteSeries is one generated athlete with their measurement history.
type athleteSeries struct {
	athleteID    string
	birthDate    time.Time
	measurements []Measurement
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateAthletes creates growth series for the configured number of athletes.
func generateAthletes(ctx context.Context, config *Config, stats *Stats) ([]athleteSeries, error) {
	logger.Get().Info(ctx, "generating athlete growth series",
		logger.Int("numAthletes", config.NumAthletes))

	athletes := make([]athleteSeries, 0, config.NumAthletes)
	for i := 0; i < config.NumAthletes; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		default:
		}
		a := generateAthlete(i)
		stats.MeasurementsGenerated += len(a.measurements)
		athletes = append(athletes, a)
	}

	stats.AthletesGenerated = len(athletes)
	logger.Get().Info(ctx, "generated athletes successfully",
		logger.Int("athletes", stats.AthletesGenerated),
		logger.Int("measurements", stats.MeasurementsGenerated))
	return athletes, nil
}

// generateAthlete builds one athlete's measurement history following a
// three-phase growth curve: steady pre-peak growth, a spurt, then
// deceleration.
func generateAthlete(index int) athleteSeries {
	athleteID := uuid.New().String()

	startAge := minStartAge + getRandomFloat()*startAgeRange
	spurtAge := spurtAgeMin + getRandomFloat()*spurtAgeRange
	samples := minSamples + int(getRandomFloat()*float64(sampleRange))

	now := time.Now().UTC().Truncate(24 * time.Hour)
	firstDate := now.AddDate(0, 0, -(samples-1)*intervalDays)
	birthDate := firstDate.AddDate(0, 0, -int(startAge*daysPerYear))

	height := baseHeightAt9 + (startAge-9.0)*prePeakRate + (getRandomFloat()*2-1)*baseHeightVar
	weight := baseWeightAt9 + (startAge-9.0)*2.5 + (getRandomFloat()*2-1)*weightVar

	measurements := make([]Measurement, 0, samples)
	date := firstDate
	for s := 0; s < samples; s++ {
		age := date.Sub(birthDate).Hours() / 24 / daysPerYear
		noisy := height + (getRandomFloat()*2-1)*measurementNoiseCM

		h := math.Round(noisy*10) / 10
		w := math.Round(weight*10) / 10
		measurements = append(measurements, Measurement{
			EventID:   fmt.Sprintf("seed_%d_%s", index, uuid.New().String()),
			AthleteID: athleteID,
			Date:      date.Format("2006-01-02"),
			HeightCM:  &h,
			WeightKG:  &w,
			BirthDate: birthDate.Format("2006-01-02"),
		})

		// Advance to the next visit and grow the athlete accordingly.
		step := intervalDays + int(getRandomFloat()*float64(jitterDays))
		years := float64(step) / daysPerYear
		height += growthRate(age, spurtAge) * years
		weight += growthRate(age, spurtAge) * years * weightPerCM
		date = date.AddDate(0, 0, step)
	}

	return athleteSeries{
		athleteID:    athleteID,
		birthDate:    birthDate,
		measurements: measurements,
	}
}

// growthRate returns the annual height velocity at a given age for an
// athlete whose spurt is centered at spurtAge.
func growthRate(age, spurtAge float64) float64 {
	switch {
	case age < spurtAge-spurtHalfWidth:
		return prePeakRate
	case age <= spurtAge+spurtHalfWidth:
		return peakRate
	default:
		return postPeakRate
	}
}
