package testhelpers

import (
	"context"
	"sync"
	"time"

	"lottocheck/domain/entities"
	"lottocheck/domain/events"
	"lottocheck/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockDrawFetcher is a mock implementation of DrawFetcher
type MockDrawFetcher struct {
	mock.Mock
}

func (m *MockDrawFetcher) FetchDraw(ctx context.Context, drawID int) (*entities.DrawRecord, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawRecord), args.Error(1)
}

// MockLatestDrawResolver is a mock implementation of LatestDrawResolver
type MockLatestDrawResolver struct {
	mock.Mock
}

func (m *MockLatestDrawResolver) ResolveLatest(ctx context.Context) (*interfaces.LatestResolution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.LatestResolution), args.Error(1)
}

// MockDrawProvider is a mock implementation of DrawProvider
type MockDrawProvider struct {
	mock.Mock
}

func (m *MockDrawProvider) GetOrFetch(ctx context.Context, ref entities.DrawRef) (*entities.DrawRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// SequenceRandom replays fixed values, wrapping each into [0, n).
type SequenceRandom struct {
	mu     sync.Mutex
	values []int
	pos    int
}

// NewSequenceRandom creates a deterministic random source
func NewSequenceRandom(values ...int) *SequenceRandom {
	return &SequenceRandom{values: values}
}

func (r *SequenceRandom) Intn(n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0, nil
	}
	v := r.values[r.pos%len(r.values)]
	r.pos++
	return v % n, nil
}

// RecordingMetrics counts metric calls for assertions
type RecordingMetrics struct {
	mu          sync.Mutex
	Fetches     map[string]int
	CacheHits   int
	CacheMisses int
	Searches    []int
}

// NewRecordingMetrics creates an empty recorder
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{Fetches: make(map[string]int)}
}

func (r *RecordingMetrics) RecordDrawFetch(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fetches[outcome]++
}

func (r *RecordingMetrics) RecordCacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.CacheHits++
	} else {
		r.CacheMisses++
	}
}

func (r *RecordingMetrics) RecordSearchAttempts(attempts int, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Searches = append(r.Searches, attempts)
}

// Snapshot returns cache hit and miss counts under the lock
func (r *RecordingMetrics) Snapshot() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.CacheHits, r.CacheMisses
}

// NewTestDraw builds a valid draw record or panics
func NewTestDraw(id int, winning []int, bonus int) *entities.DrawRecord {
	record, err := entities.NewDrawRecord(id, winning, bonus, entities.DrawDetails{})
	if err != nil {
		panic(err)
	}
	return record
}
