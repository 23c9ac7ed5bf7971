package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"lottocheck/domain/entities"
	"lottocheck/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher answers from a table; unknown ids are not found
type scriptedFetcher struct {
	mu     sync.Mutex
	draws  map[int]*entities.DrawRecord
	errs   map[int]error
	checked []int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		draws: make(map[int]*entities.DrawRecord),
		errs:  make(map[int]error),
	}
}

func (f *scriptedFetcher) FetchDraw(_ context.Context, drawID int) (*entities.DrawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, drawID)
	if err, ok := f.errs[drawID]; ok {
		return nil, err
	}
	if draw, ok := f.draws[drawID]; ok {
		return draw, nil
	}
	return nil, fmt.Errorf("draw %d: %w", drawID, entities.ErrNotFound)
}

func TestLatestDrawResolver_FindsFirstValidDraw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		upperBound int
		latest     int
		transient  []int
	}{
		{name: "upper bound is the latest draw", upperBound: 50, latest: 50},
		{name: "short run of not found", upperBound: 50, latest: 47},
		{name: "long run of not found", upperBound: 500, latest: 3},
		{name: "transport errors are skipped", upperBound: 20, latest: 15, transient: []int{20, 18, 16}},
		{name: "latest at the floor", upperBound: 10, latest: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher := newScriptedFetcher()
			fetcher.draws[tt.latest] = testhelpers.NewTestDraw(tt.latest, []int{1, 2, 3, 4, 5, 6}, 7)
			if tt.latest > 1 {
				fetcher.draws[tt.latest-1] = testhelpers.NewTestDraw(tt.latest-1, []int{1, 2, 3, 4, 5, 6}, 7)
			}
			for _, id := range tt.transient {
				fetcher.errs[id] = fmt.Errorf("%w: connection reset", entities.ErrTransport)
			}

			metrics := testhelpers.NewRecordingMetrics()
			resolver := NewLatestDrawResolver(fetcher, ResolverConfig{UpperBound: tt.upperBound, Floor: 1}, metrics)

			resolution, err := resolver.ResolveLatest(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.latest, resolution.Draw.ID())
			assert.Equal(t, tt.upperBound, resolution.UpperBound)
			assert.Equal(t, tt.upperBound-tt.latest+1, resolution.Attempts)
			assert.Equal(t, []int{resolution.Attempts}, metrics.Searches)
		})
	}
}

func TestLatestDrawResolver_ExhaustedSearch(t *testing.T) {
	t.Parallel()

	fetcher := newScriptedFetcher()
	fetcher.errs[3] = fmt.Errorf("%w: timeout", entities.ErrTransport)
	resolver := NewLatestDrawResolver(fetcher, ResolverConfig{UpperBound: 10, Floor: 1}, nil)

	resolution, err := resolver.ResolveLatest(context.Background())
	assert.Nil(t, resolution)
	require.ErrorIs(t, err, entities.ErrExhaustedSearch)

	var searchErr *entities.ExhaustedSearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, 10, searchErr.UpperBound)
	assert.Equal(t, 1, searchErr.Floor)
	assert.Equal(t, 10, searchErr.Attempts)
	assert.ErrorIs(t, searchErr.LastErr, entities.ErrNotFound)

	assert.Equal(t, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, fetcher.checked)
}

func TestLatestDrawResolver_RespectsFloor(t *testing.T) {
	t.Parallel()

	fetcher := newScriptedFetcher()
	fetcher.draws[4] = testhelpers.NewTestDraw(4, []int{1, 2, 3, 4, 5, 6}, 7)
	resolver := NewLatestDrawResolver(fetcher, ResolverConfig{UpperBound: 12, Floor: 5}, nil)

	_, err := resolver.ResolveLatest(context.Background())
	require.ErrorIs(t, err, entities.ErrExhaustedSearch)
	assert.Equal(t, []int{12, 11, 10, 9, 8, 7, 6, 5}, fetcher.checked)
}

func TestLatestDrawResolver_MalformedResponseSurfaces(t *testing.T) {
	t.Parallel()

	fetcher := new(testhelpers.MockDrawFetcher)
	fetcher.On("FetchDraw", mock.Anything, 30).Return(nil, fmt.Errorf("draw 30: %w", entities.ErrNotFound))
	fetcher.On("FetchDraw", mock.Anything, 29).Return(nil, fmt.Errorf("%w: bonus overlaps", entities.ErrMalformedResponse))

	resolver := NewLatestDrawResolver(fetcher, ResolverConfig{UpperBound: 30}, nil)
	_, err := resolver.ResolveLatest(context.Background())

	require.ErrorIs(t, err, entities.ErrMalformedResponse)
	assert.NotErrorIs(t, err, entities.ErrExhaustedSearch)
	fetcher.AssertExpectations(t)
	fetcher.AssertNotCalled(t, "FetchDraw", mock.Anything, 28)
}

func TestLatestDrawResolver_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := new(testhelpers.MockDrawFetcher)
	resolver := NewLatestDrawResolver(fetcher, ResolverConfig{UpperBound: 30}, nil)

	_, err := resolver.ResolveLatest(ctx)
	require.ErrorIs(t, err, context.Canceled)
	fetcher.AssertNotCalled(t, "FetchDraw", mock.Anything, mock.Anything)
}

func TestLatestDrawResolver_CancelledDuringLastAttempt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := new(testhelpers.MockDrawFetcher)
	fetcher.On("FetchDraw", mock.Anything, 2).
		Return(nil, fmt.Errorf("draw 2: %w", entities.ErrNotFound)).Once()
	fetcher.On("FetchDraw", mock.Anything, 1).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, fmt.Errorf("%w: draw 1: %w", entities.ErrTransport, context.Canceled)).Once()

	metrics := testhelpers.NewRecordingMetrics()
	resolver := NewLatestDrawResolver(fetcher, ResolverConfig{UpperBound: 2, Floor: 1}, metrics)

	_, err := resolver.ResolveLatest(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, entities.ErrExhaustedSearch)
	assert.Equal(t, []int{2}, metrics.Searches)
	fetcher.AssertExpectations(t)
}

func TestLatestDrawResolver_CalendarUpperBound(t *testing.T) {
	t.Parallel()

	// 2024-01-06 was draw 1101.
	now := time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC)

	fetcher := newScriptedFetcher()
	fetcher.draws[1101] = testhelpers.NewTestDraw(1101, []int{7, 12, 23, 32, 34, 36}, 8)

	resolver := NewLatestDrawResolver(fetcher, ResolverConfig{
		Margin: 2,
		Now:    func() time.Time { return now },
	}, nil)

	resolution, err := resolver.ResolveLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1103, resolution.UpperBound)
	assert.Equal(t, 1101, resolution.Draw.ID())
	assert.Equal(t, []int{1103, 1102, 1101}, fetcher.checked)
}

func TestEstimateLatestDrawID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "before first draw", now: time.Date(2002, time.November, 1, 0, 0, 0, 0, kst), want: 1},
		{name: "day of first draw", now: time.Date(2002, time.December, 7, 21, 0, 0, 0, kst), want: 1},
		{name: "week after first draw", now: time.Date(2002, time.December, 14, 0, 0, 0, 0, kst), want: 2},
		{name: "draw 1100", now: time.Date(2023, time.December, 30, 21, 0, 0, 0, kst), want: 1100},
		{name: "friday before draw 1101", now: time.Date(2024, time.January, 5, 12, 0, 0, 0, kst), want: 1100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EstimateLatestDrawID(tt.now))
		})
	}
}
