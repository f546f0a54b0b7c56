package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goloan/internal/domain"
)

// DefaultEventChannel is the pub/sub channel outbox events are sent to.
const DefaultEventChannel = "goloan:events"

// envelope is the wire shape of a published outbox event.
type envelope struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	CreatedAt     time.Time      `json:"created_at"`
	Payload       map[string]any `json:"payload"`
}

// EventPublisher publishes outbox events over Redis pub/sub.
type EventPublisher struct {
	client  *redis.Client
	channel string
}

// NewEventPublisher creates a publisher on channel. An empty channel uses
// DefaultEventChannel.
func NewEventPublisher(client *redis.Client, channel string) *EventPublisher {
	if channel == "" {
		channel = DefaultEventChannel
	}
	return &EventPublisher{client: client, channel: channel}
}

// Publish sends the event. Having no subscribers is not an error.
func (p *EventPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	data, err := json.Marshal(envelope{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		CreatedAt:     event.CreatedAt,
		Payload:       event.Payload,
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}
