package seedgen

import "time"

// Config holds configuration for the seed run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumAthletes int           // Number of athletes to generate
	Workers     int           // Number of concurrent submit workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated measurements
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Measurement is the wire shape submitted to POST /measurements.
type Measurement struct {
	EventID   string   `json:"event_id"`
	AthleteID string   `json:"athlete_id"`
	Date      string   `json:"date"`
	HeightCM  *float64 `json:"height_cm,omitempty"`
	WeightKG  *float64 `json:"weight_kg,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	BirthDate string   `json:"birth_date,omitempty"`
}

// AckResponse represents the response from measurement submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	AthletesGenerated     int
	MeasurementsGenerated int
	MeasurementsSubmitted int
	MeasurementsAccepted  int
	MeasurementsDuplicate int
	MeasurementsFailed    int
	AnalysesVerified      int
	AnalysesMissing       int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
