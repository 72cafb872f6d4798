package messaging

import "context"

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Topics carrying POS events for downstream consumers.
const (
	TopicOrdersPlaced    = "orders.placed"
	TopicInventoryUpdate = "inventory.updated"
	TopicInventoryDrift  = "inventory.drift"
)

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }
