// Package predict combines up to three independent models into a weighted
// adult-height estimate: growth-velocity projection from a PHV result, a
// simplified age-only Khamis-Roche formula, and a recent growth-curve
// projection.
package predict

import (
	"fmt"
	"math"
	"sort"

	"github.com/athlytics/stature/internal/domain/growth"
	"github.com/athlytics/stature/internal/domain/model"
)

// Prediction model constants. The weights and clamp bounds encode the
// calibration of the upstream growth model; keep them as named values.
const (
	adultAge = 18.0

	// Method A: remaining-velocity schedule relative to the PHV age.
	postPeakRecentFactor = 0.6 // past PHV by < 1 year
	postPeakMidFactor    = 0.3 // past PHV by 1–2 years
	postPeakLateFactor   = 0.15
	postPeakLateFloorCM  = 1.0
	prePeakNearFactor    = 0.8 // approaching PHV within half a year
	prePeakFarFactor     = 0.5
	maxRemainingCMPerYr  = 5.0
	velocityHighMinCount = 4

	// Method B: simplified Khamis-Roche age bands.
	khamisMinAge        = 4.0
	khamisYoungBase     = 0.90
	khamisYoungSlope    = 0.001
	khamisMidAgeCutoff  = 9.0
	khamisMidBase       = 0.88
	khamisMidSlope      = 0.001
	khamisTeenAgeCutoff = 13.0
	khamisTeenBase      = 0.85
	khamisTeenSlope     = 0.0005

	// Method C: growth-curve projection.
	curveMinMeasurements = 3
	curveMaxAvgCMPerYr   = 8.0
	curveDecelBase       = 0.7
	curveDecelMaxYears   = 3.0
	curveHighMinCount    = 5

	// Combination weights over methods that fired.
	weightGrowthVelocity = 0.4
	weightKhamisRoche    = 0.3
	weightGrowthCurve    = 0.3

	// Biological plausibility clamp for the combined estimate.
	minAdultHeightCM = 150.0
	maxAdultHeightCM = 220.0

	cmPerInch    = 2.54
	inchesPerFt  = 12
	highMinCount = 2 // methods needed for overall high confidence
)

// Method identifiers reported in MethodsUsed.
const (
	MethodGrowthVelocity = "growth_velocity"
	MethodKhamisRoche    = "khamis_roche"
	MethodGrowthCurve    = "growth_curve"
)

// Confidence tiers for predictions.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// MethodPrediction is one model's independent estimate.
type MethodPrediction struct {
	HeightCM   float64
	Confidence Confidence
}

// Prediction is the combined adult-height estimate. A nil method pointer
// means that model's preconditions were not met; that is normal, not an
// error.
type Prediction struct {
	HeightCM        float64
	HeightFtIn      string
	GrowthVelocity  *MethodPrediction
	KhamisRoche     *MethodPrediction
	GrowthCurve     *MethodPrediction
	MethodsUsed     []string
	CurrentHeightCM float64
	CurrentAge      float64
	Confidence      Confidence
}

// AdultHeight predicts adult height from a measurement series. Options
// supply the birth date, a precomputed current age, or a precomputed PHV
// result. Returns false when no model could produce an estimate.
func AdultHeight(measurements []model.Measurement, opts ...Option) (Prediction, bool) {
	var p params
	for _, opt := range opts {
		opt(&p)
	}

	usable := heightSeries(measurements)
	if len(usable) == 0 {
		return Prediction{}, false
	}
	latest := usable[len(usable)-1]
	currentHeight, _ := latest.HeightValue()

	currentAge := p.currentAge
	if currentAge == 0 && !p.birth.IsZero() {
		currentAge = growth.AgeAt(p.birth, latest.Date)
	}

	pred := Prediction{
		CurrentHeightCM: currentHeight,
		CurrentAge:      currentAge,
	}
	pred.GrowthVelocity = velocityMethod(currentHeight, currentAge, p.phv)
	pred.KhamisRoche = khamisRocheMethod(currentHeight, currentAge)
	pred.GrowthCurve = curveMethod(usable, currentHeight, currentAge)

	type fired struct {
		name   string
		weight float64
		m      *MethodPrediction
	}
	all := []fired{
		{MethodGrowthVelocity, weightGrowthVelocity, pred.GrowthVelocity},
		{MethodKhamisRoche, weightKhamisRoche, pred.KhamisRoche},
		{MethodGrowthCurve, weightGrowthCurve, pred.GrowthCurve},
	}

	var weightedSum, totalWeight, plainSum float64
	for _, f := range all {
		if f.m == nil {
			continue
		}
		pred.MethodsUsed = append(pred.MethodsUsed, f.name)
		weightedSum += f.m.HeightCM * f.weight
		totalWeight += f.weight
		plainSum += f.m.HeightCM
	}
	if len(pred.MethodsUsed) == 0 {
		return Prediction{}, false
	}

	var combined float64
	if totalWeight > 0 {
		combined = weightedSum / totalWeight
	} else {
		// Unreachable given the guards above; retained as the documented
		// defensive path of the upstream model.
		combined = plainSum / float64(len(pred.MethodsUsed))
	}
	pred.HeightCM = clamp(combined, minAdultHeightCM, maxAdultHeightCM)
	pred.HeightFtIn = FormatFeetInches(pred.HeightCM)

	pred.Confidence = ConfidenceMedium
	if len(pred.MethodsUsed) >= highMinCount {
		pred.Confidence = ConfidenceHigh
	}
	return pred, true
}

// velocityMethod projects remaining growth from the PHV estimate.
func velocityMethod(currentHeight, currentAge float64, phv *growth.Result) *MethodPrediction {
	if phv == nil || phv.Age == nil || currentAge <= 0 || currentAge >= adultAge {
		return nil
	}

	peak := phv.VelocityCMPerYear
	sincePeak := currentAge - *phv.Age

	var remaining float64
	switch {
	case sincePeak >= 2:
		remaining = math.Max(postPeakLateFloorCM, postPeakLateFactor*peak)
	case sincePeak >= 1:
		remaining = postPeakMidFactor * peak
	case sincePeak >= 0:
		remaining = postPeakRecentFactor * peak
	case sincePeak > -0.5:
		remaining = prePeakNearFactor * peak
	default:
		remaining = prePeakFarFactor * peak
	}
	if remaining > maxRemainingCMPerYr {
		remaining = maxRemainingCMPerYr
	}

	predicted := currentHeight + remaining*(adultAge-currentAge)
	if predicted > maxAdultHeightCM {
		predicted = maxAdultHeightCM
	}

	conf := ConfidenceMedium
	if phv.MeasurementsUsed >= velocityHighMinCount {
		conf = ConfidenceHigh
	}
	return &MethodPrediction{HeightCM: predicted, Confidence: conf}
}

// khamisRocheMethod applies the simplified age-only Khamis-Roche divisor.
func khamisRocheMethod(currentHeight, currentAge float64) *MethodPrediction {
	if currentAge < khamisMinAge || currentAge > adultAge {
		return nil
	}

	var divisor float64
	switch {
	case currentAge < khamisMidAgeCutoff:
		divisor = khamisYoungBase - khamisYoungSlope*currentAge
	case currentAge < khamisTeenAgeCutoff:
		divisor = khamisMidBase - khamisMidSlope*currentAge
	default:
		divisor = khamisTeenBase - khamisTeenSlope*currentAge
	}
	if divisor <= 0 {
		return nil
	}

	predicted := currentHeight / divisor
	if predicted > maxAdultHeightCM {
		predicted = maxAdultHeightCM
	}
	return &MethodPrediction{HeightCM: predicted, Confidence: ConfidenceMedium}
}

// curveMethod projects the recent growth curve forward with deceleration.
func curveMethod(usable []model.Measurement, currentHeight, currentAge float64) *MethodPrediction {
	if len(usable) < curveMinMeasurements {
		return nil
	}
	yearsTo18 := adultAge - currentAge
	if yearsTo18 <= 0 {
		return nil
	}

	last3 := usable[len(usable)-curveMinMeasurements:]
	var sum float64
	var count int
	for i := 1; i < len(last3); i++ {
		if v, ok := growth.VelocityBetween(last3[i-1], last3[i]); ok {
			sum += v.CMPerYear
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	if avg > curveMaxAvgCMPerYr {
		avg = curveMaxAvgCMPerYr
	}

	decel := math.Pow(curveDecelBase, math.Min(yearsTo18, curveDecelMaxYears))
	predicted := currentHeight + avg*decel*yearsTo18
	if predicted > maxAdultHeightCM {
		predicted = maxAdultHeightCM
	}

	conf := ConfidenceMedium
	if len(usable) >= curveHighMinCount {
		conf = ConfidenceHigh
	}
	return &MethodPrediction{HeightCM: predicted, Confidence: conf}
}

// FormatFeetInches renders a height in centimeters as a feet/inches string,
// e.g. 182.88 -> 6'0".
func FormatFeetInches(cm float64) string {
	totalInches := cm / cmPerInch
	feet := int(totalInches) / inchesPerFt
	inches := int(math.Round(math.Mod(totalInches, inchesPerFt)))
	if inches == inchesPerFt {
		feet++
		inches = 0
	}
	return fmt.Sprintf("%d'%d\"", feet, inches)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// heightSeries filters to height-bearing samples in chronological order.
func heightSeries(measurements []model.Measurement) []model.Measurement {
	usable := make([]model.Measurement, 0, len(measurements))
	for _, m := range measurements {
		if _, ok := m.HeightValue(); ok {
			usable = append(usable, m)
		}
	}
	sort.Slice(usable, func(i, j int) bool {
		return usable[i].Date.Before(usable[j].Date)
	})
	return usable
}
