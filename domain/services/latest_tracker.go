package services

import (
	"context"
	"sync/atomic"

	"lottocheck/domain/events"

	log "github.com/sirupsen/logrus"
)

// LatestDrawTracker remembers the highest draw any latest-draw search has
// resolved. It subscribes to the event bus.
type LatestDrawTracker struct {
	latest atomic.Int64
}

// NewLatestDrawTracker creates an empty tracker
func NewLatestDrawTracker() *LatestDrawTracker {
	return &LatestDrawTracker{}
}

// Handle consumes LatestDrawResolvedEvent and ignores everything else
func (t *LatestDrawTracker) Handle(_ context.Context, event events.Event) {
	resolved, ok := event.(events.LatestDrawResolvedEvent)
	if !ok {
		return
	}

	next := int64(resolved.DrawID)
	for {
		current := t.latest.Load()
		if next <= current {
			return
		}
		if t.latest.CompareAndSwap(current, next) {
			if current > 0 {
				log.WithFields(log.Fields{
					"previous": current,
					"latest":   next,
				}).Info("New draw published")
			}
			return
		}
	}
}

// Latest returns the highest resolved draw, or false before the first search
func (t *LatestDrawTracker) Latest() (int, bool) {
	v := t.latest.Load()
	return int(v), v > 0
}
