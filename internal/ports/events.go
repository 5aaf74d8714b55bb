package ports

import "context"

const (
	// EventScoreCalculated is emitted after a calculator returns a result.
	EventScoreCalculated = "score.calculated"
	// EventScoreFailed is emitted when a calculation ends in a failure.
	EventScoreFailed = "score.failed"
	// EventCatalogReloaded is emitted after the calculator cache is rebuilt.
	EventCatalogReloaded = "catalog.reloaded"
)

// DomainEvent is a notable occurrence in the registry. Payloads never carry
// caller parameters or result values.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to subscribers. Publish is synchronous and
// implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes one event. A returned error is logged and does not
// stop delivery to other subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription is a registered handler.
type Subscription interface {
	Unsubscribe()
}
