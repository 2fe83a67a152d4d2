package app

import (
	"context"
	"log/slog"

	"github.com/nfrund/relay/internal/catalog"
	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/dispatch"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/status"
)

// Dependencies holds the core services of the integration layer. The host's
// glue code receives this struct and subscribes its handlers on Registry.
type Dependencies struct {
	Config   *config.Config
	Registry *status.Registry
	Catalog  *catalog.Catalog
	Bus      *pubsub.Bus
	Status   *status.Service
}

// New wires the core services from configuration: the dispatch registry with
// the configured failure policy, the in-process bus, and the status service
// firing into the registry. Status events are announced on the bus and
// mirrored into the log; bus traffic from other publishers is re-fired into
// the registry.
func New(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	var opts []dispatch.Option
	if cfg.DispatchPolicy == config.PolicyFailFast {
		opts = append(opts, dispatch.WithFailFast())
	}
	registry := dispatch.New[string, status.Event](opts...)

	bus := pubsub.NewBus()
	registry.Subscribe(status.KeyConnected, status.Announce(bus))
	registry.Subscribe(status.KeyDisconnected, status.Announce(bus))

	// Mirror status traffic into the log for observability.
	logHandler := func(ctx context.Context, msg pubsub.Message) error {
		slog.Info("Status change announced",
			"topic", msg.Topic,
			"session_id", msg.SessionID)
		return nil
	}
	for _, topic := range []string{status.KeyConnected, status.KeyDisconnected} {
		if err := bus.Subscribe(ctx, topic, logHandler); err != nil {
			bus.Close()
			return nil, err
		}
	}

	// Re-fire bus traffic into the registry so status changes published by
	// out-of-process components reach registry subscribers too. Announced
	// messages are filtered inside the bridge.
	if err := status.Bind(ctx, bus, registry, status.KeyConnected, status.KeyDisconnected); err != nil {
		bus.Close()
		return nil, err
	}

	svc := status.NewService(registry, status.WithDebounce(cfg.StatusDebounce))

	return &Dependencies{
		Config:   cfg,
		Registry: registry,
		Catalog:  catalog.Default(),
		Bus:      bus,
		Status:   svc,
	}, nil
}

// Close releases the wired services.
func (d *Dependencies) Close() error {
	d.Status.Shutdown()
	return d.Bus.Close()
}
