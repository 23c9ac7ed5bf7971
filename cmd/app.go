package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lottocheck/config"
	"lottocheck/domain/events"
	"lottocheck/domain/interfaces"
	"lottocheck/domain/services"
	"lottocheck/infrastructure"
	"lottocheck/infrastructure/dhlottery"
	"lottocheck/infrastructure/drawcache"
	"lottocheck/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// App holds the wired collaborators shared by every entry point
type App struct {
	Config    *config.Config
	Metrics   *observability.MetricsProvider
	NATS      *infrastructure.NATSClient // nil when event publishing is disabled
	Bus       *events.Bus
	Publisher interfaces.EventPublisher // remote sink fed by Bus
	Latest    *services.LatestDrawTracker
	Fetcher   *dhlottery.Client
	Cache     *drawcache.Cache
	Service   interfaces.LottoService
}

// AppOptions selects optional infrastructure
type AppOptions struct {
	EnableEvents  bool
	EnableMetrics bool
	HTTPClient    *http.Client
}

// NewApp wires the draw fetcher, resolver, cache and service
func NewApp(ctx context.Context, cfg *config.Config, opts AppOptions) (*App, error) {
	app := &App{Config: cfg}

	app.Metrics = observability.NewMetricsProvider(cfg)
	if opts.EnableMetrics {
		if err := app.Metrics.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	app.Publisher = infrastructure.NewNoopEventPublisher()
	if opts.EnableEvents && cfg.NATSServers != "" {
		log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return nil, err
		}
		mapper := infrastructure.NewEventSubjectMapper()
		if err := natsClient.EnsureStream(infrastructure.DrawEventStream, mapper.GetAllSubjects()); err != nil {
			log.WithError(err).Warn("Failed to ensure draw event stream")
		}
		publisher := infrastructure.NewNATSEventPublisher(natsClient, mapper)
		publisher.OnPublished(app.Metrics.RecordNATSMessagePublished)
		app.NATS = natsClient
		app.Publisher = publisher
	}

	app.Latest = services.NewLatestDrawTracker()
	app.Bus = events.NewBus()
	app.Bus.Subscribe(events.EventTypeLatestDrawResolved, app.Latest.Handle)
	app.Bus.SubscribeAll(forwardTo(app.Publisher))

	app.Fetcher = dhlottery.NewClient(dhlottery.Config{
		BaseURL:   cfg.LottoAPIURL,
		Timeout:   cfg.FetchTimeout,
		RateLimit: cfg.FetchRate,
		Burst:     cfg.FetchBurst,
	}, opts.HTTPClient, app.Metrics)

	resolver := services.NewLatestDrawResolver(app.Fetcher, services.ResolverConfig{
		UpperBound: cfg.SearchUpperBound,
		Floor:      cfg.SearchFloor,
		Margin:     cfg.SearchMargin,
	}, app.Metrics)

	app.Cache = drawcache.New(app.Fetcher, resolver, app.Bus, app.Metrics)
	app.Service = services.NewLottoService(
		app.Cache,
		services.NewTicketGenerator(services.CryptoRandom{}, cfg.MaxTicketSets),
		services.NewPrizeClassifier(),
	)

	return app, nil
}

func forwardTo(publisher interfaces.EventPublisher) events.Handler {
	return func(_ context.Context, event events.Event) {
		if err := publisher.Publish(event); err != nil {
			log.WithError(err).WithField("eventType", event.Type()).Warn("Failed to forward event")
		}
	}
}

// Close drains pending events, releases NATS and flushes metrics
func (a *App) Close() {
	a.Bus.Close()
	if a.NATS != nil {
		if err := a.NATS.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Metrics.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error shutting down metrics provider")
	}
}
