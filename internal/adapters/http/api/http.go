// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/dedupe"
	"github.com/athlytics/stature/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a measurement event for async processing.
	// Returns false on backpressure.
	Enqueue(ctx context.Context, e model.MeasurementEvent) bool

	// AthleteAnalysis returns the latest growth analysis for an athlete.
	AthleteAnalysis(ctx context.Context, athleteID string) (analysis.Analysis, error)

	// Analyze runs a stateless analysis over a caller-supplied series.
	Analyze(ctx context.Context, series []model.Measurement, birth time.Time) analysis.Analysis
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	measurementsHandler *MeasurementsHandler
	analysisHandler     *AnalysisHandler
	analyzeHandler      *AnalyzeHandler
	benchmarksHandler   *BenchmarksHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		measurementsHandler: NewMeasurementsHandler(deps),
		analysisHandler:     NewAnalysisHandler(deps),
		analyzeHandler:      NewAnalyzeHandler(deps),
		benchmarksHandler:   NewBenchmarksHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/measurements", MetricsMiddleware(s.measurementsHandler.HandlePostMeasurement, "measurements"))
	mux.HandleFunc("/athletes/", MetricsMiddleware(s.analysisHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandlePostAnalyze, "analyze"))
	mux.HandleFunc("/benchmarks/compare", MetricsMiddleware(s.benchmarksHandler.HandleCompare, "benchmarks_compare"))
	mux.HandleFunc("/benchmarks", MetricsMiddleware(s.benchmarksHandler.HandleGetBenchmarks, "benchmarks"))
}

// dateLayouts are the accepted wire formats for dates, tried in order.
var dateLayouts = []string{"2006-01-02", "02 Jan 2006"}

// parseDate parses a wire date in either ISO (2006-01-02) or
// human (02 Jan 2006) form.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid date; must be YYYY-MM-DD or DD Mon YYYY")
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
