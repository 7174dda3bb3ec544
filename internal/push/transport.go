package push

import "context"

// Message is one frame delivered on a subscribed topic
type Message struct {
	Topic string
	Body  []byte
}

// Subscription is an active per-topic subscription. Messages arrive on C
// in publish order; C is closed when the subscription ends.
type Subscription interface {
	Topic() string
	C() <-chan Message
	Unsubscribe() error
}

// Transport is the connect/subscribe/publish primitive the channel manager
// drives. Implementations guarantee per-topic ordering once connected but
// make no cross-topic promises, and delivery is at-least-once: consumers
// must treat a duplicate identical message as a no-op.
type Transport interface {
	// Connect establishes the underlying connection. Calling Connect on a
	// connected transport is an error; the channel manager serializes this.
	Connect(ctx context.Context) error

	// Subscribe opens a subscription on a topic
	Subscribe(topic string) (Subscription, error)

	// Publish sends a message to an application destination
	Publish(destination string, headers map[string]string, body []byte) error

	// Close tears the connection down along with every subscription
	Close() error
}
