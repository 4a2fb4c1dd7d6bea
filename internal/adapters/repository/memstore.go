package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/pkg/metrics"
)

// Default shard count for the in-memory store.
const defaultShardCount = 8

// athleteRecord holds everything tracked for one athlete. Guarded by its
// shard's lock.
type athleteRecord struct {
	athlete      model.Athlete
	measurements []model.Measurement
	latest       *analysis.Analysis
}

type shard struct {
	mu      sync.RWMutex
	records map[string]*athleteRecord
}

// MemStore is a sharded in-memory Store. Athletes hash to shards by ID so
// concurrent ingestion for different athletes rarely contends.
type MemStore struct {
	shards           []*shard
	measurementCount int64
	countMu          sync.Mutex
}

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithShardCount sets the number of shards.
func WithShardCount(n int) MemOption {
	return func(s *MemStore) {
		if n > 0 {
			s.shards = make([]*shard, n)
		}
	}
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		shards: make([]*shard, defaultShardCount),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]*athleteRecord)}
	}
	return s
}

func (s *MemStore) shardFor(athleteID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(athleteID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// PutAthlete inserts or updates an athlete record.
func (s *MemStore) PutAthlete(_ context.Context, a model.Athlete) error {
	if a.ID == "" {
		return ErrInvalidData
	}
	sh := s.shardFor(a.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[a.ID]
	if !ok {
		sh.records[a.ID] = &athleteRecord{athlete: a}
		return nil
	}
	if !a.BirthDate.IsZero() {
		rec.athlete.BirthDate = a.BirthDate
	}
	return nil
}

// Athlete returns the athlete record, or ErrNotFound.
func (s *MemStore) Athlete(_ context.Context, id string) (model.Athlete, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.records[id]
	if !ok {
		return model.Athlete{}, ErrNotFound
	}
	return rec.athlete, nil
}

// AddMeasurement appends a measurement to its athlete's series.
func (s *MemStore) AddMeasurement(_ context.Context, m model.Measurement) error {
	if m.AthleteID == "" || m.Date.IsZero() {
		return ErrInvalidData
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(m.AthleteID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[m.AthleteID]
	if !ok {
		rec = &athleteRecord{athlete: model.Athlete{ID: m.AthleteID}}
		sh.records[m.AthleteID] = rec
	}
	rec.measurements = append(rec.measurements, m)

	s.countMu.Lock()
	s.measurementCount++
	s.countMu.Unlock()
	return nil
}

// Series returns the athlete's measurements in chronological order.
func (s *MemStore) Series(_ context.Context, athleteID string) ([]model.Measurement, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(athleteID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.records[athleteID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Measurement, len(rec.measurements))
	copy(out, rec.measurements)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SaveAnalysis stores the latest analysis snapshot for an athlete.
func (s *MemStore) SaveAnalysis(_ context.Context, a analysis.Analysis) error {
	if a.AthleteID == "" {
		return ErrInvalidData
	}
	sh := s.shardFor(a.AthleteID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[a.AthleteID]
	if !ok {
		rec = &athleteRecord{athlete: model.Athlete{ID: a.AthleteID}}
		sh.records[a.AthleteID] = rec
	}
	snapshot := a
	rec.latest = &snapshot
	return nil
}

// Analysis returns the latest snapshot, or ErrNotFound/ErrNoAnalysis.
func (s *MemStore) Analysis(_ context.Context, athleteID string) (analysis.Analysis, error) {
	sh := s.shardFor(athleteID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.records[athleteID]
	if !ok {
		return analysis.Analysis{}, ErrNotFound
	}
	if rec.latest == nil {
		return analysis.Analysis{}, ErrNoAnalysis
	}
	return *rec.latest, nil
}

// AthleteCount returns the number of athletes tracked.
func (s *MemStore) AthleteCount(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.records)
		sh.mu.RUnlock()
	}
	return total
}

// MeasurementCount returns the total number of stored measurements.
func (s *MemStore) MeasurementCount(_ context.Context) int {
	s.countMu.Lock()
	defer s.countMu.Unlock()
	return int(s.measurementCount)
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }
