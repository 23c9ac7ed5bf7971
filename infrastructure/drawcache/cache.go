// Package drawcache keeps resolved draws for the life of the process.
package drawcache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"lottocheck/domain/entities"
	"lottocheck/domain/events"
	"lottocheck/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	viaExplicit = "explicit"
	viaLatest   = "latest"

	latestKey = "latest"
)

// Cache memoizes draw records by draw number. Published draws never change,
// so entries are never evicted. Concurrent lookups of the same uncached draw
// share a single fetch.
type Cache struct {
	fetcher   interfaces.DrawFetcher
	resolver  interfaces.LatestDrawResolver
	publisher interfaces.EventPublisher
	metrics   interfaces.MetricsRecorder

	mu    sync.RWMutex
	draws map[int]*entities.DrawRecord

	flights singleflight.Group
}

// New creates an empty cache
func New(fetcher interfaces.DrawFetcher, resolver interfaces.LatestDrawResolver, publisher interfaces.EventPublisher, metrics interfaces.MetricsRecorder) *Cache {
	if metrics == nil {
		metrics = interfaces.NoopMetrics{}
	}
	return &Cache{
		fetcher:   fetcher,
		resolver:  resolver,
		publisher: publisher,
		metrics:   metrics,
		draws:     make(map[int]*entities.DrawRecord),
	}
}

// GetOrFetch returns the draw for ref. Explicit draws are served from memory
// when present; failures are never cached. The latest draw is searched for on
// every call, and the record found is cached under its own number.
func (c *Cache) GetOrFetch(ctx context.Context, ref entities.DrawRef) (*entities.DrawRecord, error) {
	if ref.IsLatest() {
		return c.resolveLatest(ctx)
	}
	return c.getExplicit(ctx, ref.ID())
}

// Get returns a cached draw without fetching.
func (c *Cache) Get(drawID int) (*entities.DrawRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.draws[drawID]
	return record, ok
}

// Len returns the number of cached draws.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.draws)
}

// DrawIDs returns the cached draw numbers in descending order.
func (c *Cache) DrawIDs() []int {
	c.mu.RLock()
	ids := make([]int, 0, len(c.draws))
	for id := range c.draws {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	return ids
}

func (c *Cache) getExplicit(ctx context.Context, drawID int) (*entities.DrawRecord, error) {
	if drawID <= 0 {
		return nil, fmt.Errorf("%w: %d", entities.ErrInvalidDrawID, drawID)
	}

	if record, ok := c.Get(drawID); ok {
		c.metrics.RecordCacheLookup(true)
		log.WithField("draw_id", drawID).Debug("Draw cache hit")
		return record, nil
	}
	c.metrics.RecordCacheLookup(false)

	// The flight outlives any single caller: cancellation of the caller that
	// started it must not fail the others. The fetcher's timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	return c.await(ctx, strconv.Itoa(drawID), func() (any, error) {
		// A flight that completed after our lookup may already have stored it.
		if record, ok := c.Get(drawID); ok {
			return record, nil
		}
		record, err := c.fetcher.FetchDraw(flightCtx, drawID)
		if err != nil {
			return nil, err
		}
		return c.store(record, viaExplicit), nil
	})
}

func (c *Cache) resolveLatest(ctx context.Context) (*entities.DrawRecord, error) {
	flightCtx := context.WithoutCancel(ctx)
	return c.await(ctx, latestKey, func() (any, error) {
		resolution, err := c.resolver.ResolveLatest(flightCtx)
		if err != nil {
			return nil, err
		}
		record := c.store(resolution.Draw, viaLatest)
		c.publish(events.LatestDrawResolvedEvent{
			DrawID:     record.ID(),
			UpperBound: resolution.UpperBound,
			Attempts:   resolution.Attempts,
		})
		return record, nil
	})
}

// await joins or starts the flight for key and waits for it or for ctx.
func (c *Cache) await(ctx context.Context, key string, fn func() (any, error)) (*entities.DrawRecord, error) {
	select {
	case res := <-c.flights.DoChan(key, fn):
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entities.DrawRecord), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// store inserts record unless its draw is already cached, and returns the
// cached instance.
func (c *Cache) store(record *entities.DrawRecord, via string) *entities.DrawRecord {
	c.mu.Lock()
	if existing, ok := c.draws[record.ID()]; ok {
		c.mu.Unlock()
		return existing
	}
	c.draws[record.ID()] = record
	size := len(c.draws)
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"draw_id":    record.ID(),
		"via":        via,
		"cache_size": size,
	}).Info("Cached draw")
	c.publish(events.DrawCachedEvent{DrawID: record.ID(), Via: via})
	return record
}

func (c *Cache) publish(event events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish draw cache event")
	}
}
