// Package worker defines the asynchronous analysis pipeline: workers drain
// the measurement queue, append to the store, and recompute the owning
// athlete's growth analysis.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/athlytics/stature/internal/adapters/repository"
	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/pkg/logger"
	"github.com/athlytics/stature/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event is what workers read off the queue.
type Event = model.MeasurementEvent

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes measurement events until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// AnalysisWorker implements Worker against a repository.Store.
type AnalysisWorker struct {
	queue Queue
	store repository.Store
	name  string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewAnalysisWorker creates a worker with configuration options.
func NewAnalysisWorker(q Queue, store repository.Store, opts ...Option) *AnalysisWorker {
	w := &AnalysisWorker{
		queue:    q,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *AnalysisWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing measurement event", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *AnalysisWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent appends the measurement and recomputes the athlete's
// analysis snapshot.
func (w *AnalysisWorker) processEvent(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if !event.BirthDate.IsZero() {
		if err := w.store.PutAthlete(ctx, model.Athlete{ID: event.AthleteID, BirthDate: event.BirthDate}); err != nil {
			return w.fail(ctx, event, "store_put_athlete", err)
		}
	}
	if err := w.store.AddMeasurement(ctx, event.Measurement); err != nil {
		return w.fail(ctx, event, "store_add_measurement", err)
	}

	series, err := w.store.Series(ctx, event.AthleteID)
	if err != nil {
		return w.fail(ctx, event, "store_series", err)
	}
	athlete, err := w.store.Athlete(ctx, event.AthleteID)
	if err != nil {
		return w.fail(ctx, event, "store_athlete", err)
	}

	report := analysis.Run(event.AthleteID, series, athlete.BirthDate)
	if err := w.store.SaveAnalysis(ctx, report); err != nil {
		return w.fail(ctx, event, "store_save_analysis", err)
	}

	w.logger.Debug(ctx, "analysis updated",
		logger.String("athleteID", event.AthleteID),
		logger.Int("measurements", report.Measurements),
		logger.Bool("valid", report.Verdict.Valid),
	)
	return nil
}

func (w *AnalysisWorker) fail(ctx context.Context, event Event, kind string, err error) error {
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
	w.logger.Error(ctx, "event processing failed",
		logger.String("eventID", event.EventID),
		logger.String("athleteID", event.AthleteID),
		logger.String("kind", kind),
		logger.Error(err),
	)
	return fmt.Errorf("%s for event %s: %w", kind, event.EventID, err)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*AnalysisWorker
	queue   Queue
	store   repository.Store

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool of the given size.
func NewPool(workerCount int, q Queue, store repository.Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*AnalysisWorker, workerCount),
		queue:    q,
		store:    store,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewAnalysisWorker(q, store, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
			// already signalled
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
