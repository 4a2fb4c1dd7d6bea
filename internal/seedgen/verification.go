package seedgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/athlytics/stature/pkg/logger"
)

// analysisProbe is the subset of the analysis response the verifier checks.
type analysisProbe struct {
	AthleteID    string `json:"athlete_id"`
	Measurements int    `json:"measurements"`
	PHV          *struct {
		VelocityCMPerYear float64 `json:"velocity_cm_per_year"`
		Source            string  `json:"source"`
	} `json:"phv"`
	Prediction *struct {
		HeightCM   float64 `json:"predicted_height_cm"`
		Confidence string  `json:"confidence"`
	} `json:"prediction"`
}

// verifyAnalyses fetches each athlete's analysis and sanity-checks it.
func verifyAnalyses(ctx context.Context, config *Config, athletes []athleteSeries, stats *Stats) error {
	logger.Get().Info(ctx, "verifying analyses", logger.Int("athletes", len(athletes)))

	client := newHTTPClient(config.Timeout)

	for _, a := range athletes {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during verification: %w", ctx.Err())
		default:
		}

		url := config.BaseURL + "/athletes/" + a.athleteID + "/analysis"
		resp, err := client.Get(ctx, url)
		if err != nil {
			stats.AnalysesMissing++
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != http.StatusOK {
			stats.AnalysesMissing++
			continue
		}

		var probe analysisProbe
		if err := json.Unmarshal(body, &probe); err != nil {
			stats.AnalysesMissing++
			continue
		}
		if err := checkProbe(a, probe); err != nil {
			logger.Get().Warn(ctx, "analysis failed sanity check",
				logger.String("athleteID", a.athleteID),
				logger.Error(err))
			stats.AnalysesMissing++
			continue
		}
		stats.AnalysesVerified++
	}

	logger.Get().Info(ctx, "verification completed",
		logger.Int("verified", stats.AnalysesVerified),
		logger.Int("missing", stats.AnalysesMissing))

	if stats.AnalysesVerified == 0 && len(athletes) > 0 {
		return fmt.Errorf("no analyses verified for %d athletes", len(athletes))
	}
	return nil
}

// checkProbe validates the invariants every seeded analysis must satisfy.
func checkProbe(a athleteSeries, probe analysisProbe) error {
	if probe.Measurements < len(a.measurements) {
		return fmt.Errorf("expected at least %d measurements, got %d",
			len(a.measurements), probe.Measurements)
	}
	if probe.PHV == nil {
		return fmt.Errorf("missing phv result")
	}
	if probe.PHV.VelocityCMPerYear < 0 || probe.PHV.VelocityCMPerYear > 12.0 {
		return fmt.Errorf("phv velocity %.2f outside [0, 12]", probe.PHV.VelocityCMPerYear)
	}
	if probe.Prediction == nil {
		return fmt.Errorf("missing prediction")
	}
	if probe.Prediction.HeightCM < 150.0 || probe.Prediction.HeightCM > 220.0 {
		return fmt.Errorf("predicted height %.1f outside [150, 220]", probe.Prediction.HeightCM)
	}
	return nil
}
