// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/athlytics/stature/internal/adapters/mq/queue"
	workerpool "github.com/athlytics/stature/internal/adapters/mq/worker"
	"github.com/athlytics/stature/internal/adapters/repository"
	"github.com/athlytics/stature/internal/config"
	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/dedupe"
	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/pkg/logger"
	"github.com/athlytics/stature/pkg/metrics"
)

// Service wires the ingest pipeline (dedupe, queue, workers) to the
// measurement store and the growth engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	shardCount   int
	storeBackend string
	storePath    string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the shard count for the in-memory store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithStoreBackend selects the store backend and, for sqlite, its path.
func WithStoreBackend(backend, path string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storeBackend = backend
		}
		if path != "" {
			s.storePath = path
		}
	}
}

// WithStore injects a prebuilt store, bypassing backend selection.
// Used by tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    100_000,
		dedupeSize:   50_000,
		shardCount:   8,
		storeBackend: config.StoreMemory,
		storePath:    "stature.db",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting growth analytics service...")

	if s.store == nil {
		store, err := s.buildStore()
		if err != nil {
			return err
		}
		s.store = store
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "growth analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("store", s.storeBackend),
	)

	return nil
}

func (s *Service) buildStore() (repository.Store, error) {
	switch s.storeBackend {
	case config.StoreSQLite:
		store, err := repository.OpenSQLiteStore(s.storePath)
		if err != nil {
			return nil, fmt.Errorf("build sqlite store: %w", err)
		}
		return store, nil
	default:
		return repository.NewMemStore(
			repository.WithShardCount(s.shardCount),
		), nil
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping growth analytics service...")

	// Closing the queue lets workers drain their dequeue channels.
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "growth analytics service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Returns true if the event was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordMeasurementDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a measurement event for asynchronous processing.
// Returns false when the queue rejects the event (backpressure).
func (s *Service) Enqueue(ctx context.Context, e model.MeasurementEvent) bool {
	s.logger.Debug(ctx, "enqueueing measurement event",
		logger.String("eventID", e.EventID),
		logger.String("athleteID", e.AthleteID),
	)

	ok := s.eventQueue.Enqueue(ctx, e)
	if ok {
		metrics.RecordMeasurementIngested()
		metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	}
	return ok
}

// AthleteAnalysis returns the latest analysis snapshot for an athlete.
// When measurements exist but no snapshot does, one is computed on demand
// and persisted.
func (s *Service) AthleteAnalysis(ctx context.Context, athleteID string) (analysis.Analysis, error) {
	report, err := s.store.Analysis(ctx, athleteID)
	if err == nil {
		return report, nil
	}
	if err != repository.ErrNoAnalysis {
		metrics.RecordAnalysisError()
		return analysis.Analysis{}, err
	}

	series, err := s.store.Series(ctx, athleteID)
	if err != nil {
		return analysis.Analysis{}, err
	}
	athlete, err := s.store.Athlete(ctx, athleteID)
	if err != nil {
		return analysis.Analysis{}, err
	}

	report = analysis.Run(athleteID, series, athlete.BirthDate)
	if err := s.store.SaveAnalysis(ctx, report); err != nil {
		return analysis.Analysis{}, err
	}
	return report, nil
}

// Analyze runs a stateless analysis over a caller-supplied series without
// touching the store.
func (s *Service) Analyze(_ context.Context, series []model.Measurement, birth time.Time) analysis.Analysis {
	return analysis.Run("", series, birth)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"store":       s.storeBackend,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		athletes := s.store.AthleteCount(ctx)
		measurements := s.store.MeasurementCount(ctx)

		stats["queueLength"] = queueLen
		stats["athletes"] = athletes
		stats["measurements"] = measurements

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalAthletes(athletes)
		metrics.UpdateTotalMeasurements(measurements)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
