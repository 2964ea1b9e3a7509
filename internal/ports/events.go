package ports

import "context"

// EventPublisher emits service events. Publication is best-effort from the
// scan's point of view: failures are logged by the caller, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
