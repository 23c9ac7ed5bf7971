package infrastructure

import (
	"fmt"

	"lottocheck/domain/events"
)

// Subjects published by this service
const (
	SubjectDrawCached         = "lotto.draws.cached"
	SubjectLatestDrawResolved = "lotto.draws.latest_resolved"

	// SubjectAllDraws matches every draw event subject
	SubjectAllDraws = "lotto.draws.*"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeDrawCached:
		return SubjectDrawCached
	case events.EventTypeLatestDrawResolved:
		return SubjectLatestDrawResolved
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case SubjectDrawCached:
		return events.EventTypeDrawCached
	case SubjectLatestDrawResolved:
		return events.EventTypeLatestDrawResolved
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectDrawCached,
		SubjectLatestDrawResolved,
	}
}
