// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/athlytics/stature/internal/domain/dedupe"
	"github.com/athlytics/stature/internal/domain/model"
)

// MeasurementDependencies defines the interface for measurement ingestion.
type MeasurementDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.MeasurementEvent) bool
}

// MeasurementsHandler handles measurement ingestion requests.
type MeasurementsHandler struct {
	deps MeasurementDependencies
}

// NewMeasurementsHandler creates a new measurements handler.
func NewMeasurementsHandler(deps MeasurementDependencies) *MeasurementsHandler {
	return &MeasurementsHandler{deps: deps}
}

// measurementRequest mirrors the OpenAPI schema for POST /measurements.
type measurementRequest struct {
	EventID   string   `json:"event_id"`
	AthleteID string   `json:"athlete_id"`
	Date      string   `json:"date"`
	HeightCM  *float64 `json:"height_cm,omitempty"`
	WeightKG  *float64 `json:"weight_kg,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	BirthDate string   `json:"birth_date,omitempty"`
}

func (m measurementRequest) validate() error {
	switch {
	case strings.TrimSpace(m.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(m.AthleteID) == "":
		return errors.New("missing athlete_id")
	case strings.TrimSpace(m.Date) == "":
		return errors.New("missing date")
	}
	if _, err := parseDate(m.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if m.BirthDate != "" {
		if _, err := parseDate(m.BirthDate); err != nil {
			return fmt.Errorf("birth_date: %w", err)
		}
	}
	return nil
}

// toEvent converts a validated request into the queue payload.
func (m measurementRequest) toEvent() model.MeasurementEvent {
	date, _ := parseDate(m.Date)
	var birth time.Time
	if m.BirthDate != "" {
		birth, _ = parseDate(m.BirthDate)
	}
	return model.MeasurementEvent{
		EventID:   m.EventID,
		AthleteID: m.AthleteID,
		BirthDate: birth,
		Measurement: model.Measurement{
			ID:        m.EventID,
			AthleteID: m.AthleteID,
			Date:      date,
			HeightCM:  m.HeightCM,
			WeightKG:  m.WeightKG,
			Notes:     m.Notes,
		},
	}
}

// HandlePostMeasurement handles POST /measurements requests.
func (h *MeasurementsHandler) HandlePostMeasurement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), req.toEvent()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
