package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
	"github.com/iho/goloan/internal/usecase"
)

// EventPublisher handles publishing events from the outbox.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
	batchSize  int
	interval   time.Duration
	retention  time.Duration
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Metrics    *metrics.Metrics
	Logger     *zerolog.Logger
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
	// Retention prunes published events older than this after each batch.
	// Zero keeps them forever.
	Retention time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		logger:     logger.With().Str("component", "outbox").Logger(),
		now:        time.Now,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		retention:  cfg.Retention,
	}
}

// Start begins the event publishing worker.
// It runs continuously until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error processing events")
			}
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(events) > 0 {
		ep.logger.Debug().Int("count", len(events)).Msg("processing events")
	}

	for _, event := range events {
		if err := ep.publishEvent(ctx, event); err != nil {
			ep.observe(event, "failed")
			ep.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			// Continue processing other events even if one fails
			continue
		}
		ep.observe(event, "published")

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.now()); err != nil {
			ep.logger.Error().Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
		}
	}

	if ep.retention > 0 {
		if err := ep.outboxRepo.DeletePublished(ctx, ep.now().Add(-ep.retention)); err != nil {
			return err
		}
	}

	return nil
}

func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	if err := ep.publisher.Publish(ctx, event); err != nil {
		return err
	}

	ep.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Msg("event published")

	return nil
}

func (ep *EventPublisher) observe(event *domain.OutboxEvent, status string) {
	if ep.metrics == nil {
		return
	}
	ep.metrics.EventsPublished.WithLabelValues(event.EventType, status).Inc()
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event")

	return nil
}
