// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/athlytics/stature/internal/domain/benchmark"
)

// Metric identifiers accepted by POST /benchmarks/compare.
const (
	metricHeight  = "height_cm"
	metricSprint  = "sprint_speed_m_s"
	metricJump    = "vertical_jump_cm"
	metricAgility = "agility_seconds"
	maxCompareAge = 120.0
)

// BenchmarksHandler serves the elite reference tables. The tables are
// static so the handler needs no dependencies.
type BenchmarksHandler struct{}

// NewBenchmarksHandler creates a new benchmarks handler.
func NewBenchmarksHandler() *BenchmarksHandler {
	return &BenchmarksHandler{}
}

// HandleGetBenchmarks handles GET /benchmarks?age={age} requests.
func (h *BenchmarksHandler) HandleGetBenchmarks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	age, err := parseAge(r.URL.Query().Get("age"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, benchmark.ForAge(age))
}

// compareRequest mirrors the OpenAPI schema for POST /benchmarks/compare.
type compareRequest struct {
	Age    float64 `json:"age"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type compareResponse struct {
	AgeBand     string                `json:"age_band"`
	Metric      string                `json:"metric"`
	Value       float64               `json:"value"`
	Rating      benchmark.Rating      `json:"rating"`
	Percentiles benchmark.Percentiles `json:"percentiles"`
}

// HandleCompare handles POST /benchmarks/compare requests.
func (h *BenchmarksHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if req.Age < 0 || req.Age > maxCompareAge {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("age out of range"))
		return
	}

	table := benchmark.ForAge(req.Age)
	percentiles, direction, err := metricTable(table, req.Metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		AgeBand:     table.AgeBand,
		Metric:      req.Metric,
		Value:       req.Value,
		Rating:      benchmark.Compare(req.Value, percentiles, direction),
		Percentiles: percentiles,
	})
}

// metricTable resolves a wire metric name to its percentile table and
// comparison direction.
func metricTable(b benchmark.Benchmark, metric string) (benchmark.Percentiles, benchmark.Direction, error) {
	switch strings.TrimSpace(metric) {
	case metricHeight:
		return b.HeightCM, benchmark.HigherIsBetter, nil
	case metricSprint:
		return b.SprintSpeedMS, benchmark.HigherIsBetter, nil
	case metricJump:
		return b.VerticalJumpCM, benchmark.HigherIsBetter, nil
	case metricAgility:
		return b.AgilitySec, benchmark.LowerIsBetter, nil
	default:
		return benchmark.Percentiles{}, benchmark.HigherIsBetter,
			fmt.Errorf("unknown metric %q", metric)
	}
}

func parseAge(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, errors.New("missing age parameter")
	}
	age, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid age parameter")
	}
	if age < 0 || age > maxCompareAge {
		return 0, errors.New("age out of range")
	}
	return age, nil
}
