package push

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"

	"github.com/frankint/battleship-cli/internal/model"
)

// StompTransport speaks STOMP over a websocket to the server's message
// broker. One instance is shared by all subscriptions of a session.
type StompTransport struct {
	url    string
	logger *slog.Logger

	mu     sync.Mutex
	ws     *websocket.Conn
	conn   *stomp.Conn
	closed bool
}

// NewStompTransport creates a transport that will dial the given
// websocket URL, e.g. "ws://host:8080/ws"
func NewStompTransport(url string, logger *slog.Logger) *StompTransport {
	return &StompTransport{url: url, logger: logger}
}

// Connect dials the websocket and performs the STOMP handshake
func (t *StompTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return fmt.Errorf("transport already connected")
	}

	ws, _, err := websocket.Dial(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.url, err)
	}

	// The broker speaks STOMP frames as text messages over the socket
	netConn := websocket.NetConn(context.Background(), ws, websocket.MessageText)

	conn, err := stomp.Connect(netConn,
		stomp.ConnOpt.HeartBeat(10*time.Second, 10*time.Second),
	)
	if err != nil {
		_ = ws.Close(websocket.StatusProtocolError, "stomp handshake failed")
		return fmt.Errorf("stomp connect: %w", err)
	}

	t.ws = ws
	t.conn = conn
	t.closed = false
	t.logger.Info("push transport connected", slog.String("url", t.url))
	return nil
}

// Subscribe opens a STOMP subscription and pumps its frames into a
// Message channel. The channel closes when the subscription ends, either
// by Unsubscribe or because the connection dropped.
func (t *StompTransport) Subscribe(topic string) (Subscription, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return nil, model.ErrNotConnected
	}

	sub, err := conn.Subscribe(topic, stomp.AckAuto)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	out := make(chan Message, 16)
	s := &stompSubscription{topic: topic, sub: sub, out: out}
	go s.pump(t.logger)
	return s, nil
}

// Publish sends a frame to an application destination with the given
// headers
func (t *StompTransport) Publish(destination string, headers map[string]string, body []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return model.ErrNotConnected
	}

	opts := make([]func(*frame.Frame) error, 0, len(headers))
	for k, v := range headers {
		opts = append(opts, stomp.SendOpt.Header(k, v))
	}

	if err := conn.Send(destination, "application/json", body, opts...); err != nil {
		return fmt.Errorf("publish %s: %w", destination, err)
	}
	return nil
}

// Close disconnects the STOMP session and the websocket
func (t *StompTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.conn == nil {
		return nil
	}
	t.closed = true

	err := t.conn.Disconnect()
	if t.ws != nil {
		_ = t.ws.Close(websocket.StatusNormalClosure, "teardown")
	}
	t.conn = nil
	t.ws = nil
	t.logger.Info("push transport closed")
	return err
}

type stompSubscription struct {
	topic string
	sub   *stomp.Subscription
	out   chan Message
}

func (s *stompSubscription) Topic() string      { return s.topic }
func (s *stompSubscription) C() <-chan Message  { return s.out }
func (s *stompSubscription) Unsubscribe() error { return s.sub.Unsubscribe() }

func (s *stompSubscription) pump(logger *slog.Logger) {
	defer close(s.out)
	for msg := range s.sub.C {
		if msg.Err != nil {
			logger.Warn("subscription error",
				slog.String("topic", s.topic),
				slog.String("error", msg.Err.Error()),
			)
			return
		}
		s.out <- Message{Topic: s.topic, Body: msg.Body}
	}
}

var _ Transport = (*StompTransport)(nil)
