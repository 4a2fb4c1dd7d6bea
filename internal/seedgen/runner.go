package seedgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/athlytics/stature/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// processingDelay gives the async pipeline time to drain before verification.
const processingDelay = 2 * time.Second

// Run executes the complete seed-and-verify cycle.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting athlete seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("athletes", config.NumAthletes),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate athlete growth series
	athletes, err := generateAthletes(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("athlete generation failed: %w", err)
	}

	// Step 3: Submit measurements concurrently
	if err := submitMeasurements(ctx, config, athletes, stats); err != nil {
		return fmt.Errorf("measurement submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for measurements to be processed")
	time.Sleep(processingDelay)

	// Step 5: Verify analyses were produced
	if err := verifyAnalyses(ctx, config, athletes, stats); err != nil {
		return fmt.Errorf("analysis verification failed: %w", err)
	}

	// Step 6: Save generated measurements to file
	if err := saveMeasurementsToFile(ctx, config, athletes); err != nil {
		logger.Get().Warn(ctx, "failed to save measurements to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveMeasurementsToFile saves the generated measurements to a JSON file.
func saveMeasurementsToFile(ctx context.Context, config *Config, athletes []athleteSeries) error {
	if len(athletes) == 0 {
		return fmt.Errorf("no measurements to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "seed_measurements_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	first := true
	for _, a := range athletes {
		for _, m := range a.measurements {
			if !first {
				if _, err := file.WriteString(",\n"); err != nil {
					return fmt.Errorf("failed to write separator: %w", err)
				}
			}
			first = false

			jsonData, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to marshal measurement %s: %w", m.EventID, err)
			}
			if _, err := file.Write(jsonData); err != nil {
				return fmt.Errorf("failed to write measurement %s: %w", m.EventID, err)
			}
		}
	}

	if _, err := file.WriteString("\n]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "measurements saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, measurementsPerSecond float64

	if stats.MeasurementsSubmitted > 0 {
		successRate = float64(stats.MeasurementsAccepted) / float64(stats.MeasurementsSubmitted) * 100
	}
	if stats.Duration > 0 {
		measurementsPerSecond = float64(stats.MeasurementsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("athletesGenerated", stats.AthletesGenerated),
		logger.Int("measurementsGenerated", stats.MeasurementsGenerated),
		logger.Int("measurementsSubmitted", stats.MeasurementsSubmitted),
		logger.Int("measurementsAccepted", stats.MeasurementsAccepted),
		logger.Int("measurementsDuplicate", stats.MeasurementsDuplicate),
		logger.Int("measurementsFailed", stats.MeasurementsFailed),
		logger.Int("analysesVerified", stats.AnalysesVerified),
		logger.Int("analysesMissing", stats.AnalysesMissing),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("measurementsPerSecond", measurementsPerSecond))
}
