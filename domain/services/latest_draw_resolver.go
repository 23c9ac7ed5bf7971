package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultSearchFloor is the lowest draw number checked.
	DefaultSearchFloor = 1
	// DefaultSearchMargin is added to the calendar estimate to absorb clock
	// skew and delayed publication.
	DefaultSearchMargin = 2
)

var (
	kst = time.FixedZone("KST", 9*60*60)

	// firstDrawDate is the Saturday of draw 1. Draws follow weekly.
	firstDrawDate = time.Date(2002, time.December, 7, 0, 0, 0, 0, kst)
)

// EstimateLatestDrawID returns the draw number scheduled for the week
// containing now, counting draw 1 as 2002-12-07.
func EstimateLatestDrawID(now time.Time) int {
	elapsed := now.In(kst).Sub(firstDrawDate)
	if elapsed < 0 {
		return 1
	}
	return int(elapsed/(7*24*time.Hour)) + 1
}

// ResolverConfig bounds the backward search.
type ResolverConfig struct {
	// UpperBound is the first identifier checked. Zero derives it from the
	// calendar estimate plus Margin on every search.
	UpperBound int
	Floor      int
	Margin     int
	Now        func() time.Time
}

// latestDrawResolver walks draw numbers downward from an upper bound until
// the source returns a valid draw.
type latestDrawResolver struct {
	fetcher interfaces.DrawFetcher
	cfg     ResolverConfig
	metrics interfaces.MetricsRecorder
}

// NewLatestDrawResolver creates a resolver over the given fetcher
func NewLatestDrawResolver(fetcher interfaces.DrawFetcher, cfg ResolverConfig, metrics interfaces.MetricsRecorder) interfaces.LatestDrawResolver {
	if cfg.Floor < 1 {
		cfg.Floor = DefaultSearchFloor
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if metrics == nil {
		metrics = interfaces.NoopMetrics{}
	}
	return &latestDrawResolver{
		fetcher: fetcher,
		cfg:     cfg,
		metrics: metrics,
	}
}

// upperBound returns the configured start or the calendar estimate
func (r *latestDrawResolver) upperBound() int {
	if r.cfg.UpperBound > 0 {
		return r.cfg.UpperBound
	}
	return EstimateLatestDrawID(r.cfg.Now()) + r.cfg.Margin
}

// ResolveLatest attempts identifiers from the upper bound down to the floor.
// Not-found and transport failures move on to the next lower identifier; a
// malformed response stops the search and is returned as is.
func (r *latestDrawResolver) ResolveLatest(ctx context.Context) (*interfaces.LatestResolution, error) {
	upper := r.upperBound()
	attempts := 0
	var lastErr error

	for id := upper; id >= r.cfg.Floor; id-- {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("latest draw search cancelled at draw %d: %w", id, err)
		}

		attempts++
		record, err := r.fetcher.FetchDraw(ctx, id)
		if err == nil {
			r.metrics.RecordSearchAttempts(attempts, true)
			log.WithFields(log.Fields{
				"draw_id":     record.ID(),
				"upper_bound": upper,
				"attempts":    attempts,
			}).Info("Resolved latest draw")
			return &interfaces.LatestResolution{
				Draw:       record,
				UpperBound: upper,
				Attempts:   attempts,
			}, nil
		}

		if !errors.Is(err, entities.ErrNotFound) && !errors.Is(err, entities.ErrTransport) {
			r.metrics.RecordSearchAttempts(attempts, false)
			return nil, fmt.Errorf("latest draw search stopped at draw %d: %w", id, err)
		}

		// the lookup failed because the caller gave up, not because the draw is missing
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.metrics.RecordSearchAttempts(attempts, false)
			return nil, fmt.Errorf("latest draw search cancelled at draw %d: %w", id, ctxErr)
		}

		log.WithError(err).WithField("draw_id", id).Debug("Draw not resolvable, trying previous draw")
		lastErr = err
	}

	r.metrics.RecordSearchAttempts(attempts, false)
	searchErr := &entities.ExhaustedSearchError{
		UpperBound: upper,
		Floor:      r.cfg.Floor,
		Attempts:   attempts,
		LastErr:    lastErr,
	}
	log.WithFields(log.Fields{
		"upper_bound": upper,
		"floor":       r.cfg.Floor,
		"attempts":    attempts,
	}).Warn("Latest draw search exhausted")
	return nil, searchErr
}
