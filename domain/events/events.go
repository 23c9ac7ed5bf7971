package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDrawCached         EventType = "draw_cached"
	EventTypeLatestDrawResolved EventType = "latest_draw_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DrawCachedEvent is published when a draw record enters the cache
type DrawCachedEvent struct {
	DrawID int    `json:"draw_id"`
	Via    string `json:"via"` // "explicit" or "latest"
}

func (e DrawCachedEvent) Type() EventType {
	return EventTypeDrawCached
}

// LatestDrawResolvedEvent is published after every successful latest-draw search
type LatestDrawResolvedEvent struct {
	DrawID     int `json:"draw_id"`
	UpperBound int `json:"upper_bound"`
	Attempts   int `json:"attempts"`
}

func (e LatestDrawResolvedEvent) Type() EventType {
	return EventTypeLatestDrawResolved
}
