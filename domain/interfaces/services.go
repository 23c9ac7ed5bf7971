package interfaces

import (
	"context"
	"time"

	"lottocheck/domain/entities"
	"lottocheck/domain/events"
)

// DrawFetcher performs a single lookup of one draw against the remote source.
// Failures wrap entities.ErrNotFound, entities.ErrTransport or
// entities.ErrMalformedResponse.
type DrawFetcher interface {
	FetchDraw(ctx context.Context, drawID int) (*entities.DrawRecord, error)
}

// LatestDrawResolver discovers the most recent resolvable draw.
type LatestDrawResolver interface {
	ResolveLatest(ctx context.Context) (*LatestResolution, error)
}

// LatestResolution is the outcome of a successful backward search.
type LatestResolution struct {
	Draw       *entities.DrawRecord
	UpperBound int
	Attempts   int
}

// DrawProvider returns draws by reference, serving repeat lookups from memory.
type DrawProvider interface {
	GetOrFetch(ctx context.Context, ref entities.DrawRef) (*entities.DrawRecord, error)
}

// RandomSource supplies uniform random integers in [0, n).
type RandomSource interface {
	Intn(n int) (int, error)
}

// TicketGenerator produces random tickets.
type TicketGenerator interface {
	GenerateTicket() (entities.Ticket, error)
	GenerateTickets(count int) ([]entities.Ticket, error)
}

// PrizeClassifier compares tickets with draws.
type PrizeClassifier interface {
	Classify(ticket entities.Ticket, draw *entities.DrawRecord) entities.MatchResult
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// MetricsRecorder receives operational measurements. Implementations must be
// safe for concurrent use.
type MetricsRecorder interface {
	RecordDrawFetch(outcome string, duration time.Duration)
	RecordCacheLookup(hit bool)
	RecordSearchAttempts(attempts int, found bool)
}

// TicketCheck pairs a generated ticket with its result. Result is nil when
// the draw could not be resolved.
type TicketCheck struct {
	Ticket entities.Ticket
	Result *entities.MatchResult
}

// CheckReport is the answer to a generate-and-compare request.
type CheckReport struct {
	Ref     entities.DrawRef
	Draw    *entities.DrawRecord // nil when comparison is unavailable
	Tickets []TicketCheck

	// ComparisonErr explains why Draw is nil.
	ComparisonErr error
}

// ComparisonAvailable reports whether tickets were classified.
func (r *CheckReport) ComparisonAvailable() bool {
	return r.Draw != nil
}

// LottoService orchestrates ticket generation, draw resolution and classification.
type LottoService interface {
	GetDraw(ctx context.Context, ref entities.DrawRef) (*entities.DrawRecord, error)
	CheckTickets(ctx context.Context, ref entities.DrawRef, count int) (*CheckReport, error)
	ClassifyTicket(ctx context.Context, ref entities.DrawRef, ticket entities.Ticket) (*entities.DrawRecord, entities.MatchResult, error)
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

func (NoopMetrics) RecordDrawFetch(string, time.Duration) {}
func (NoopMetrics) RecordCacheLookup(bool)                {}
func (NoopMetrics) RecordSearchAttempts(int, bool)        {}
