package seedgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/athlytics/stature/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitMeasurements submits all measurements concurrently using a worker pool.
func submitMeasurements(ctx context.Context, config *Config, athletes []athleteSeries, stats *Stats) error {
	total := stats.MeasurementsGenerated
	logger.Get().Info(ctx, "submitting measurements",
		logger.Int("measurements", total),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/measurements"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	measurementChan := make(chan Measurement, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range measurementChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result := submitSingleMeasurement(ctx, client, url, m)

				atomic.AddInt64(&submitted, 1)
				switch result {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				case "failed":
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	// Feed measurements to the workers. Series order per athlete does not
	// matter; the engine sorts by date.
	go func() {
		defer close(measurementChan)
		for _, a := range athletes {
			for _, m := range a.measurements {
				select {
				case <-ctx.Done():
					return
				case measurementChan <- m:
				}
			}
		}
	}()

	wg.Wait()

	stats.MeasurementsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.MeasurementsAccepted = int(atomic.LoadInt64(&accepted))
	stats.MeasurementsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.MeasurementsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "measurement submission completed",
		logger.Int("accepted", stats.MeasurementsAccepted),
		logger.Int("duplicate", stats.MeasurementsDuplicate),
		logger.Int("failed", stats.MeasurementsFailed))
	return nil
}

// submitSingleMeasurement submits one measurement and classifies the outcome.
func submitSingleMeasurement(ctx context.Context, client *HTTPClient, url string, m Measurement) string {
	resp, err := client.Post(ctx, url, m)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return "accepted"
	case http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
