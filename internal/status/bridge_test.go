package status

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/dispatch"
	"github.com/nfrund/relay/internal/pubsub"
)

func TestBindFiresRegistryFromBus(t *testing.T) {
	bus := pubsub.NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := dispatch.New[string, Event]()
	sink := &eventSink{}
	reg.Subscribe(KeyConnected, sink.subscriber())
	reg.Subscribe(KeyDisconnected, sink.subscriber())

	require.NoError(t, Bind(ctx, bus, reg, KeyConnected, KeyDisconnected))

	payload, err := json.Marshal(Event{
		SessionID: "sess1",
		State:     StateConnected,
		Clients:   1,
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)

	// An out-of-package publisher: no origin metadata on the message.
	require.NoError(t, bus.Publish(ctx, pubsub.Message{
		Topic:     KeyConnected,
		SessionID: "sess1",
		Payload:   payload,
	}))

	require.Eventually(t, func() bool {
		return len(sink.all()) == 1
	}, time.Second, 10*time.Millisecond)

	events := sink.all()
	assert.Equal(t, "sess1", events[0].SessionID)
	assert.Equal(t, StateConnected, events[0].State)
}

func TestBindSkipsAnnouncedMessages(t *testing.T) {
	bus := pubsub.NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := dispatch.New[string, Event]()
	sink := &eventSink{}
	reg.Subscribe(KeyConnected, sink.subscriber())
	reg.Subscribe(KeyConnected, Announce(bus))

	require.NoError(t, Bind(ctx, bus, reg, KeyConnected))

	svc := NewService(reg, WithDebounce(0))
	defer svc.Shutdown()

	svc.ClientConnected(ctx, "sess1", "client1")

	// The announced copy travels the bus and returns to the bridge; it must
	// not be dispatched a second time.
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, sink.all(), 1)
}

func TestBindRejectsMalformedPayload(t *testing.T) {
	bus := pubsub.NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := dispatch.New[string, Event]()
	sink := &eventSink{}
	reg.Subscribe(KeyConnected, sink.subscriber())

	require.NoError(t, Bind(ctx, bus, reg, KeyConnected))

	require.NoError(t, bus.Publish(ctx, pubsub.Message{
		Topic:   KeyConnected,
		Payload: []byte("not json"),
	}))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sink.all())
}
