// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/model"
)

// AnalyzeDependencies defines the interface for stateless analysis.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, series []model.Measurement, birth time.Time) analysis.Analysis
}

// AnalyzeHandler handles synchronous analysis requests over a
// caller-supplied series.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// analyzeMeasurement is one sample in an analyze request.
type analyzeMeasurement struct {
	Date     string   `json:"date"`
	HeightCM *float64 `json:"height_cm,omitempty"`
	WeightKG *float64 `json:"weight_kg,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// analyzeRequest mirrors the OpenAPI schema for POST /analyze.
type analyzeRequest struct {
	BirthDate    string               `json:"birth_date,omitempty"`
	Measurements []analyzeMeasurement `json:"measurements"`
}

func (a analyzeRequest) validate() error {
	if len(a.Measurements) == 0 {
		return errors.New("missing measurements")
	}
	if a.BirthDate != "" {
		if _, err := parseDate(a.BirthDate); err != nil {
			return fmt.Errorf("birth_date: %w", err)
		}
	}
	for i, m := range a.Measurements {
		if strings.TrimSpace(m.Date) == "" {
			return fmt.Errorf("measurements[%d]: missing date", i)
		}
		if _, err := parseDate(m.Date); err != nil {
			return fmt.Errorf("measurements[%d]: %w", i, err)
		}
	}
	return nil
}

// toSeries converts a validated request into domain measurements.
func (a analyzeRequest) toSeries() []model.Measurement {
	series := make([]model.Measurement, 0, len(a.Measurements))
	for i, m := range a.Measurements {
		date, _ := parseDate(m.Date)
		series = append(series, model.Measurement{
			ID:       strconv.Itoa(i),
			Date:     date,
			HeightCM: m.HeightCM,
			WeightKG: m.WeightKG,
			Notes:    m.Notes,
		})
	}
	return series
}

// HandlePostAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandlePostAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	var birth time.Time
	if req.BirthDate != "" {
		birth, _ = parseDate(req.BirthDate)
	}

	report := h.deps.Analyze(r.Context(), req.toSeries(), birth)
	writeJSON(w, http.StatusOK, toAnalysisResponse(report))
}
