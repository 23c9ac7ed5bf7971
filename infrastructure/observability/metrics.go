package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lottocheck/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for lottocheck. It satisfies
// interfaces.MetricsRecorder; every Record method is a no-op until
// Initialize succeeds with metrics enabled.
type MetricsProvider struct {
	config        *config.Config
	reader        sdkmetric.Reader // overrides the configured exporter when set
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	fetchCounter                 metric.Int64Counter
	fetchDurationHist            metric.Float64Histogram
	cacheLookupsCounter          metric.Int64Counter
	searchAttemptsHist           metric.Int64Histogram
	natsMessagesPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// NewMetricsProviderWithReader creates a provider that reports to reader
// instead of the configured exporter.
func NewMetricsProviderWithReader(cfg *config.Config, reader sdkmetric.Reader) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
		reader: reader,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	reader := mp.reader
	if reader == nil {
		var exporter sdkmetric.Exporter
		switch mp.config.OTelExporterType {
		case "console":
			exporter, err = stdoutmetric.New()
			if err != nil {
				return fmt.Errorf("failed to create console exporter: %w", err)
			}
			log.Info("Using console metric exporter")

		case "otlp":
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			exporter, err = otlpmetricgrpc.New(ctx,
				otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
				otlpmetricgrpc.WithInsecure(),
			)
			if err != nil {
				return fmt.Errorf("failed to create OTLP exporter: %w", err)
			}
			log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

		case "none":
			log.Info("Metrics export disabled (exporter_type='none')")
			mp.initialized = true
			return nil

		default:
			return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
		}

		reader = sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
		)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("lottocheck")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.fetchCounter, err = mp.meter.Int64Counter(
		FetchTotal,
		metric.WithDescription("Total number of remote draw lookups by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetch counter: %w", err)
	}

	mp.fetchDurationHist, err = mp.meter.Float64Histogram(
		FetchDuration,
		metric.WithDescription("Duration of remote draw lookups in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetch duration histogram: %w", err)
	}

	mp.cacheLookupsCounter, err = mp.meter.Int64Counter(
		CacheLookupsTotal,
		metric.WithDescription("Total number of draw cache lookups by result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache lookups counter: %w", err)
	}

	mp.searchAttemptsHist, err = mp.meter.Int64Histogram(
		SearchAttempts,
		metric.WithDescription("Draws checked per latest-draw search"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create search attempts histogram: %w", err)
	}

	mp.natsMessagesPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordDrawFetch records one remote lookup and its duration
func (mp *MetricsProvider) RecordDrawFetch(outcome string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelOutcome, outcome))
	mp.fetchCounter.Add(context.Background(), 1, attrs)
	mp.fetchDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// RecordCacheLookup records a draw cache hit or miss
func (mp *MetricsProvider) RecordCacheLookup(hit bool) {
	if !mp.isEnabled() {
		return
	}

	result := CacheResultMiss
	if hit {
		result = CacheResultHit
	}
	mp.cacheLookupsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelResult, result),
		),
	)
}

// RecordSearchAttempts records how many draws a latest-draw search checked
func (mp *MetricsProvider) RecordSearchAttempts(attempts int, found bool) {
	if !mp.isEnabled() {
		return
	}

	mp.searchAttemptsHist.Record(context.Background(), int64(attempts),
		metric.WithAttributes(
			attribute.Bool(LabelFound, found),
		),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
