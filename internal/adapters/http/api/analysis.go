// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/athlytics/stature/internal/adapters/repository"
	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/growth"
	"github.com/athlytics/stature/internal/domain/predict"
)

// AnalysisDependencies defines the interface for analysis reads.
type AnalysisDependencies interface {
	AthleteAnalysis(ctx context.Context, athleteID string) (analysis.Analysis, error)
}

// AnalysisHandler handles per-athlete analysis requests.
type AnalysisHandler struct {
	deps AnalysisDependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleGetAnalysis handles GET /athletes/{athlete_id}/analysis requests.
func (h *AnalysisHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /athletes/
	path := strings.TrimPrefix(r.URL.Path, "/athletes/")
	athleteID, rest, found := strings.Cut(path, "/")
	if !found || athleteID == "" || rest != "analysis" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	report, err := h.deps.AthleteAnalysis(r.Context(), athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisResponse(report))
}

// Wire shapes for analysis responses.

type validationResult struct {
	Valid            bool    `json:"valid"`
	Warning          bool    `json:"warning"`
	Message          string  `json:"message,omitempty"`
	Measurements     int     `json:"measurements"`
	SpanDays         float64 `json:"span_days"`
	MeanIntervalDays float64 `json:"mean_interval_days"`
}

type phvResult struct {
	Date              string   `json:"phv_date,omitempty"`
	Age               *float64 `json:"phv_age,omitempty"`
	VelocityCMPerYear float64  `json:"velocity_cm_per_year"`
	VelocityCMPerDay  float64  `json:"velocity_cm_per_day"`
	MeasurementsUsed  int      `json:"measurements_used"`
	ValidIntervals    int      `json:"valid_intervals"`
	Capped            bool     `json:"capped"`
	Source            string   `json:"source"`
}

type methodResult struct {
	HeightCM   float64 `json:"predicted_height_cm"`
	Confidence string  `json:"confidence"`
}

type predictionResult struct {
	HeightCM        float64       `json:"predicted_height_cm"`
	HeightFtIn      string        `json:"predicted_height_ft_in"`
	GrowthVelocity  *methodResult `json:"growth_velocity,omitempty"`
	KhamisRoche     *methodResult `json:"khamis_roche,omitempty"`
	GrowthCurve     *methodResult `json:"growth_curve,omitempty"`
	MethodsUsed     []string      `json:"methods_used"`
	CurrentHeightCM float64       `json:"current_height_cm"`
	CurrentAge      float64       `json:"current_age"`
	Confidence      string        `json:"confidence"`
}

type analysisResponse struct {
	AthleteID    string            `json:"athlete_id,omitempty"`
	ComputedAt   string            `json:"computed_at"`
	Measurements int               `json:"measurements"`
	Validation   validationResult  `json:"validation"`
	PHV          *phvResult        `json:"phv,omitempty"`
	Prediction   *predictionResult `json:"prediction,omitempty"`
}

func toAnalysisResponse(a analysis.Analysis) analysisResponse {
	resp := analysisResponse{
		AthleteID:    a.AthleteID,
		ComputedAt:   a.ComputedAt.Format(time.RFC3339),
		Measurements: a.Measurements,
		Validation:   toValidationResult(a.Verdict),
	}
	if a.PHV != nil {
		resp.PHV = toPHVResult(*a.PHV)
	}
	if a.Prediction != nil {
		resp.Prediction = toPredictionResult(*a.Prediction)
	}
	return resp
}

func toValidationResult(v growth.Verdict) validationResult {
	return validationResult{
		Valid:            v.Valid,
		Warning:          v.Warning,
		Message:          v.Message,
		Measurements:     v.Measurements,
		SpanDays:         v.SpanDays,
		MeanIntervalDays: v.MeanIntervalDays,
	}
}

func toPHVResult(r growth.Result) *phvResult {
	out := &phvResult{
		Age:               r.Age,
		VelocityCMPerYear: r.VelocityCMPerYear,
		VelocityCMPerDay:  r.VelocityCMPerDay,
		MeasurementsUsed:  r.MeasurementsUsed,
		ValidIntervals:    r.ValidIntervals,
		Capped:            r.Capped,
		Source:            string(r.Source),
	}
	if !r.Date.IsZero() {
		out.Date = r.Date.Format("2006-01-02")
	}
	return out
}

func toPredictionResult(p predict.Prediction) *predictionResult {
	return &predictionResult{
		HeightCM:        p.HeightCM,
		HeightFtIn:      p.HeightFtIn,
		GrowthVelocity:  toMethodResult(p.GrowthVelocity),
		KhamisRoche:     toMethodResult(p.KhamisRoche),
		GrowthCurve:     toMethodResult(p.GrowthCurve),
		MethodsUsed:     p.MethodsUsed,
		CurrentHeightCM: p.CurrentHeightCM,
		CurrentAge:      p.CurrentAge,
		Confidence:      string(p.Confidence),
	}
}

func toMethodResult(m *predict.MethodPrediction) *methodResult {
	if m == nil {
		return nil
	}
	return &methodResult{HeightCM: m.HeightCM, Confidence: string(m.Confidence)}
}
