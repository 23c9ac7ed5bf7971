package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lottocheck/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// DecodeEnvelope parses an envelope received from NATS
func DecodeEnvelope(data []byte) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	if envelope.EventID == "" || envelope.EventType == "" {
		return nil, fmt.Errorf("event envelope missing id or type")
	}
	return &envelope, nil
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	publisher     MessagePublisher
	subjectMapper *EventSubjectMapper
	source        string
	now           func() time.Time
	newID         func() string
	onPublished   func(eventType string)
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(publisher MessagePublisher, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		publisher:     publisher,
		subjectMapper: subjectMapper,
		source:        clientName,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// OnPublished registers a callback invoked after each successful publish
func (p *NATSEventPublisher) OnPublished(fn func(eventType string)) {
	p.onPublished = fn
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := &EventEnvelope{
		EventID:       p.newID(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: p.source,
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.publisher.Publish(ctx, subject, envelopeData); err != nil {
		// No stream bound to the subject; nobody is listening.
		if strings.Contains(err.Error(), "no response from stream") {
			log.WithField("subject", subject).Debug("No stream for event subject")
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if p.onPublished != nil {
		p.onPublished(envelope.EventType)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}
