package events

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrBusClosed is returned by Publish once Close has been called
var ErrBusClosed = errors.New("event bus closed")

// Handler processes an event
type Handler func(ctx context.Context, event Event)

// Bus fans events out to in-process subscribers. Handlers run on their own
// goroutines; a panicking handler is logged and does not affect the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
	closed   bool
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for one event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll registers a handler for every event type
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish dispatches event to its subscribers and returns immediately
func (b *Bus) Publish(event Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.all))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.all...)
	// Add under the lock so Close cannot start waiting in between
	b.wg.Add(len(handlers))
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	ctx := context.Background()
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
	return nil
}

// Close refuses further events and waits for dispatched handlers
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
}
