package infrastructure

import (
	"lottocheck/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops events. Used when NATS_SERVERS is unset and by
// one-shot CLI commands.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Trace("Dropping event")
	return nil
}
