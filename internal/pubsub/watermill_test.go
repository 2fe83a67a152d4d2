package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusRoundtrip(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []Message

	err := bus.Subscribe(ctx, "status.connected", func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, msg)
		return nil
	})
	require.NoError(t, err)

	err = bus.Publish(ctx, Message{
		Topic:     "status.connected",
		SessionID: "sess1",
		Payload:   []byte(`{"state":"connected"}`),
		Metadata:  map[string]string{"origin": "test"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	msg := received[0]
	assert.Equal(t, "status.connected", msg.Topic)
	assert.Equal(t, "sess1", msg.SessionID)
	assert.JSONEq(t, `{"state":"connected"}`, string(msg.Payload))
	assert.Equal(t, "test", msg.Metadata["origin"])
}

func TestBusTopicIsolation(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string

	subscribe := func(topic string) {
		err := bus.Subscribe(ctx, topic, func(ctx context.Context, msg Message) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, msg.Topic)
			return nil
		})
		require.NoError(t, err)
	}
	subscribe("status.connected")
	subscribe("status.disconnected")

	require.NoError(t, bus.Publish(ctx, Message{Topic: "status.disconnected"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"status.disconnected"}, got)
}
