package status

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nfrund/relay/internal/dispatch"
	"github.com/nfrund/relay/internal/pubsub"
)

const (
	// metaKeyOrigin marks where a bus message came from. Messages announced
	// from the registry carry originRegistry so Bind does not feed them back.
	metaKeyOrigin  = "origin"
	originRegistry = "registry"
)

// Announce returns a dispatch subscriber that forwards status events onto
// the message bus, so components that are not wired into the registry can
// still observe connection changes. The bus topic is the dispatch key the
// event corresponds to.
func Announce(publisher pubsub.Publisher) dispatch.Subscriber[Event] {
	return func(ctx context.Context, ev Event) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal status event: %w", err)
		}

		topic := KeyConnected
		if ev.State == StateDisconnected {
			topic = KeyDisconnected
		}

		return publisher.Publish(ctx, pubsub.Message{
			Topic:     topic,
			SessionID: ev.SessionID,
			Payload:   payload,
			Metadata:  map[string]string{metaKeyOrigin: originRegistry},
		})
	}
}
