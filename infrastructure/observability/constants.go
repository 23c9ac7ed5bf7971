package observability

// Metric name prefixes
const (
	MetricPrefix = "lottocheck"
)

// Metric names
const (
	// Draw fetch metrics
	FetchTotal    = MetricPrefix + ".fetch.total"
	FetchDuration = MetricPrefix + ".fetch.duration"

	// Cache metrics
	CacheLookupsTotal = MetricPrefix + ".cache.lookups_total"

	// Latest-draw search metrics
	SearchAttempts = MetricPrefix + ".search.attempts"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelOutcome   = "outcome"
	LabelResult    = "result"
	LabelFound     = "found"
	LabelEventType = "event_type"
)

// Cache lookup results
const (
	CacheResultHit  = "hit"
	CacheResultMiss = "miss"
)
