package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/infrastructure/metrics"
)

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Config for EventPublisher.
type Config struct {
	Publishers []Publisher
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
	// BufferSize bounds queued events; Notify drops events beyond it.
	BufferSize int
	// PublishTimeout bounds a single Publish call.
	PublishTimeout time.Duration
}

// EventPublisher implements usecase.Notifier with a buffered queue drained by
// one worker. Events are delivered at most once; a failing publisher only
// loses its own copy.
type EventPublisher struct {
	events     chan domain.Event
	publishers []Publisher
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	timeout    time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	return &EventPublisher{
		events:     make(chan domain.Event, cfg.BufferSize),
		publishers: cfg.Publishers,
		logger:     cfg.Logger.With().Str("component", "eventpublisher").Logger(),
		metrics:    cfg.Metrics,
		timeout:    cfg.PublishTimeout,
	}
}

// Notify queues an event without blocking.
func (ep *EventPublisher) Notify(event domain.Event) {
	select {
	case ep.events <- event:
	default:
		if ep.metrics != nil {
			ep.metrics.NotificationsDropped.Inc()
		}
		ep.logger.Warn().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("notification buffer full, event dropped")
	}
}

// Start drains the queue until ctx is cancelled, then flushes what is left.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("buffer", cap(ep.events)).
		Int("publishers", len(ep.publishers)).
		Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.flush()
			ep.logger.Info().Msg("event publisher shutting down")
			return nil
		case event := <-ep.events:
			ep.publish(context.Background(), event)
		}
	}
}

func (ep *EventPublisher) flush() {
	for {
		select {
		case event := <-ep.events:
			ep.publish(context.Background(), event)
		default:
			return
		}
	}
}

func (ep *EventPublisher) publish(ctx context.Context, event domain.Event) {
	for _, p := range ep.publishers {
		pctx, cancel := context.WithTimeout(ctx, ep.timeout)
		err := p.Publish(pctx, event)
		cancel()

		if err != nil {
			ep.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.Type).
				Msg("failed to publish event")
		}
	}

	if ep.metrics != nil {
		ep.metrics.NotificationsPublished.WithLabelValues(event.Type).Inc()
	}
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("aggregate_id", event.AggregateID).
		Time("occurred_at", event.OccurredAt).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}

// MetricsPublisher turns ledger events into Prometheus counters.
type MetricsPublisher struct {
	metrics *metrics.Metrics
}

// NewMetricsPublisher creates a new MetricsPublisher.
func NewMetricsPublisher(m *metrics.Metrics) *MetricsPublisher {
	return &MetricsPublisher{metrics: m}
}

// Publish records the event.
func (p *MetricsPublisher) Publish(_ context.Context, event domain.Event) error {
	switch payload := event.Payload.(type) {
	case domain.EntryPostedEvent:
		p.metrics.EntriesPosted.WithLabelValues(payload.Currency).Inc()
		p.metrics.EntryLines.Observe(float64(payload.Lines))
	case domain.EntryCancelledEvent:
		p.metrics.EntriesCancelled.Inc()
	case domain.AccountCreatedEvent:
		p.metrics.AccountsCreated.Inc()
	case domain.AccountDeletedEvent:
		p.metrics.AccountsDeleted.Inc()
	case domain.BulletinReplacedEvent:
		p.metrics.BulletinsReplaced.Inc()
	case domain.RevaluationCreatedEvent:
		p.metrics.RevaluationsCreated.WithLabelValues(payload.Direction).Inc()
	}
	return nil
}
