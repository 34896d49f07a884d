package mykafka

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_orders/pkg/config"
)

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestPublishEvent_RejectsUnencodable(t *testing.T) {
	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	err = p.PublishEvent(context.Background(), "order_events", "k", map[string]any{"bad": make(chan int)})
	require.ErrorContains(t, err, "json.Marshal")
}

func TestPublishEvent_RoundTrip(t *testing.T) {
	brokers := config.CSV(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		t.Skip("KAFKA_BROKERS not set")
	}

	topic := "order_events_test_" + uuid.NewString()[:8]
	key := uuid.NewString()

	p, err := NewProducer(brokers)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, p.PublishEvent(ctx, topic, key, map[string]any{"type": "order_placed", "orderID": key}))

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, MinBytes: 1, MaxBytes: 1 << 20})
	t.Cleanup(func() { _ = r.Close() })

	msg, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, key, string(msg.Key))

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "order_placed", event["type"])
	require.Equal(t, key, event["orderID"])
}
