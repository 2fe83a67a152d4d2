package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/relay/internal/pubsub"
)

// Bind subscribes the given bus topics and re-fires the registry for each
// message received, so status changes published by out-of-package components
// reach registry subscribers. Messages the registry itself announced onto
// the bus (see Announce) are skipped, otherwise a bound registry would
// re-dispatch its own traffic.
func Bind(ctx context.Context, sub pubsub.Subscriber, registry *Registry, topics ...string) error {
	for _, topic := range topics {
		if err := sub.Subscribe(ctx, topic, refire(registry)); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

// refire builds the bus handler. It never returns an error: a Nack makes
// the in-memory bus redeliver the same message, so malformed payloads and
// subscriber failures are logged and dropped instead.
func refire(registry *Registry) pubsub.Handler {
	return func(ctx context.Context, msg pubsub.Message) error {
		if msg.Metadata[metaKeyOrigin] == originRegistry {
			return nil
		}

		var ev Event
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			slog.Error("Dropping malformed status message",
				"topic", msg.Topic,
				"session_id", msg.SessionID,
				"error", err)
			return nil
		}

		if err := registry.Fire(ctx, msg.Topic, ev); err != nil {
			slog.Error("Subscriber failure during re-dispatch",
				"topic", msg.Topic,
				"session_id", ev.SessionID,
				"error", err)
		}
		return nil
	}
}
