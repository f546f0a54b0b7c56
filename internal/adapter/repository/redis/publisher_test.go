package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goloan/internal/domain"
)

func TestEventPublisherDeliversEnvelope(t *testing.T) {
	client, _ := newTestRedisClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, DefaultEventChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewEventPublisher(client, "")
	err = pub.Publish(ctx, &domain.OutboxEvent{
		ID:            "evt-1",
		EventType:     domain.EventTypePaymentRegistered,
		AggregateType: domain.AggregateTypePayment,
		AggregateID:   "pay-1",
		Payload:       map[string]any{"total": "888.49"},
	})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultEventChannel, msg.Channel)

	var got envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, domain.EventTypePaymentRegistered, got.EventType)
	assert.Equal(t, "pay-1", got.AggregateID)
	assert.Equal(t, "888.49", got.Payload["total"])
}

func TestEventPublisherWithoutSubscribers(t *testing.T) {
	client, _ := newTestRedisClient(t)
	pub := NewEventPublisher(client, "custom")

	err := pub.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-2"})
	assert.NoError(t, err)
}

func TestEventPublisherConnectionError(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	err := NewEventPublisher(client, "").Publish(context.Background(), &domain.OutboxEvent{ID: "evt-3"})
	assert.Error(t, err)
}
