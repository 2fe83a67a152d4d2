package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/status"
)

func TestNewWiresStatusThroughBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{
		LogFormat:      "text",
		LogLevel:       "info",
		DispatchPolicy: config.PolicyIsolated,
		StatusDebounce: 0,
	}

	deps, err := New(ctx, cfg)
	require.NoError(t, err)
	defer deps.Close()

	var mu sync.Mutex
	var topics []string
	err = deps.Bus.Subscribe(ctx, status.KeyConnected, func(ctx context.Context, msg pubsub.Message) error {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, msg.Topic)
		return nil
	})
	require.NoError(t, err)

	deps.Status.ClientConnected(ctx, "sess1", "client1")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(topics) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{status.KeyConnected}, topics)
}

func TestNewRegistersCatalogKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{
		LogFormat:      "text",
		LogLevel:       "info",
		DispatchPolicy: config.PolicyFailFast,
		StatusDebounce: time.Second,
	}

	deps, err := New(ctx, cfg)
	require.NoError(t, err)
	defer deps.Close()

	_, ok := deps.Catalog.Get(status.KeyConnected)
	assert.True(t, ok)
	_, ok = deps.Catalog.Get(status.KeyDisconnected)
	assert.True(t, ok)
}
