// Package pushtest provides an in-memory push transport for tests.
package pushtest

import (
	"context"
	"sync"

	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/push"
)

// Transport is an in-memory push.Transport. Tests deliver messages with
// Deliver and inspect subscriptions and published frames directly.
type Transport struct {
	mu sync.Mutex

	connected   bool
	FailConnect error // returned by the next Connect call when set

	subs      map[string]*subscription
	Published []PublishedFrame

	ConnectCalls int
}

// PublishedFrame records one Publish call
type PublishedFrame struct {
	Destination string
	Headers     map[string]string
	Body        []byte
}

// New creates a disconnected fake transport
func New() *Transport {
	return &Transport{subs: make(map[string]*subscription)}
}

func (t *Transport) Connect(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ConnectCalls++
	if t.FailConnect != nil {
		err := t.FailConnect
		t.FailConnect = nil
		return err
	}
	t.connected = true
	return nil
}

func (t *Transport) Subscribe(topic string) (push.Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return nil, model.ErrNotConnected
	}

	sub := &subscription{
		transport: t,
		topic:     topic,
		ch:        make(chan push.Message, 64),
	}
	t.subs[topic] = sub
	return sub, nil
}

func (t *Transport) Publish(destination string, headers map[string]string, body []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return model.ErrNotConnected
	}
	t.Published = append(t.Published, PublishedFrame{
		Destination: destination,
		Headers:     headers,
		Body:        body,
	})
	return nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connected = false
	for topic, sub := range t.subs {
		sub.closed = true
		close(sub.ch)
		delete(t.subs, topic)
	}
	return nil
}

// Break ends one subscription from the transport side, the way a broker
// error frame would, without touching the connection. It reports whether a
// subscription existed.
func (t *Transport) Break(topic string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	sub, ok := t.subs[topic]
	if !ok {
		return false
	}
	sub.closed = true
	close(sub.ch)
	delete(t.subs, topic)
	return true
}

// Connected reports whether Connect has succeeded and Close has not been
// called since
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// SubscribedTopics returns the currently subscribed topic names
func (t *Transport) SubscribedTopics() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	topics := make([]string, 0, len(t.subs))
	for topic := range t.subs {
		topics = append(topics, topic)
	}
	return topics
}

// Deliver pushes a message to the topic's subscriber, if any. It reports
// whether a subscription existed.
func (t *Transport) Deliver(topic string, body []byte) bool {
	t.mu.Lock()
	sub, ok := t.subs[topic]
	t.mu.Unlock()
	if !ok {
		return false
	}
	sub.ch <- push.Message{Topic: topic, Body: body}
	return true
}

type subscription struct {
	transport *Transport
	topic     string
	ch        chan push.Message
	closed    bool
}

func (s *subscription) Topic() string          { return s.topic }
func (s *subscription) C() <-chan push.Message { return s.ch }

func (s *subscription) Unsubscribe() error {
	s.transport.mu.Lock()
	defer s.transport.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	delete(s.transport.subs, s.topic)
	close(s.ch)
	return nil
}

var _ push.Transport = (*Transport)(nil)
