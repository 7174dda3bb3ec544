// Package channel owns the single push-transport connection of a session
// and the set of active topic subscriptions on it.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/push"
)

// State of the transport connection
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handlers receive decoded push messages. Nil handlers are skipped. Topic
// ordering holds per handler; no cross-handler ordering is promised.
type Handlers struct {
	// Snapshot receives match-state pushes, tagged with the match they
	// belong to so stale deliveries can be discarded downstream
	Snapshot func(model.MatchID, *model.MatchSnapshot)

	// MatchError receives messages from the per-player error topic
	MatchError func(model.MatchID, string)

	// Notification receives personal-channel events
	Notification func(model.Notification)
}

// Manager is the channel manager: it connects the transport once per
// session, keeps the personal notification subscription alive across match
// entry/exit, and swaps match subscriptions by strict teardown-then-create
// so no orphaned subscription survives a navigation.
type Manager struct {
	transport  push.Transport
	handlers   Handlers
	logger     *slog.Logger
	newBackoff func() backoff.BackOff

	mu        sync.Mutex
	state     State
	identity  model.PlayerID
	personal  push.Subscription
	matchID   model.MatchID
	matchSubs []push.Subscription
	tearing   bool
}

// NewManager creates a channel manager over the given transport
func NewManager(transport push.Transport, handlers Handlers, logger *slog.Logger) *Manager {
	return &Manager{
		transport:  transport,
		handlers:   handlers,
		logger:     logger,
		newBackoff: defaultBackoff,
	}
}

// defaultBackoff bounds connection and subscription retries. Each retried
// operation gets its own policy instance, so the personal and match
// subscriptions back off independently.
func defaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return backoff.WithMaxRetries(b, 8)
}

// SetBackoff overrides the retry policy factory. Tests use this to retry
// without delay.
func (m *Manager) SetBackoff(factory func() backoff.BackOff) {
	m.newBackoff = factory
}

// State returns the connection state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// EnsureConnected connects the transport if it is not already connected or
// connecting; otherwise it is a no-op. On reaching CONNECTED the personal
// notification topic for the identity is (re)subscribed. That subscription
// is session-scoped and survives match entry and exit.
func (m *Manager) EnsureConnected(ctx context.Context, identity model.PlayerID) error {
	m.mu.Lock()
	if m.state != StateDisconnected {
		m.mu.Unlock()
		return nil
	}
	m.state = StateConnecting
	m.identity = identity
	m.tearing = false
	m.mu.Unlock()

	err := backoff.Retry(func() error {
		return m.transport.Connect(ctx)
	}, backoff.WithContext(m.newBackoff(), ctx))
	if err != nil {
		m.setState(StateDisconnected)
		return fmt.Errorf("connect push transport: %w", err)
	}

	m.setState(StateConnected)
	m.logger.Info("push channel connected", slog.String("identity", string(identity)))

	// Without the personal subscription the connection is useless: drops
	// would go unnoticed and notifications lost. Fall all the way back to
	// DISCONNECTED so the next EnsureConnected rebuilds from scratch.
	if err := m.subscribePersonal(identity); err != nil {
		m.setState(StateDisconnected)
		_ = m.transport.Close()
		return err
	}
	return nil
}

func (m *Manager) subscribePersonal(identity model.PlayerID) error {
	topic := personalTopic(identity)

	var sub push.Subscription
	err := backoff.Retry(func() error {
		var subErr error
		sub, subErr = m.transport.Subscribe(topic)
		return subErr
	}, m.newBackoff())
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	m.mu.Lock()
	m.personal = sub
	m.mu.Unlock()

	go m.pumpNotifications(sub)
	return nil
}

// EnterMatch subscribes the match-state and match-error topics for the
// given match. Any previous match's subscriptions are torn down first:
// exactly one match's subscriptions are active at a time. While the
// transport is not yet connected the subscription is retried with bounded
// backoff rather than failing silently.
func (m *Manager) EnterMatch(ctx context.Context, matchID model.MatchID) error {
	m.dropMatchSubs()

	err := backoff.Retry(func() error {
		m.mu.Lock()
		if m.state != StateConnected {
			m.mu.Unlock()
			return model.ErrNotConnected
		}
		identity := m.identity
		m.mu.Unlock()
		return m.subscribeMatch(matchID, identity)
	}, backoff.WithContext(m.newBackoff(), ctx))
	if err != nil {
		return fmt.Errorf("enter match %s: %w", matchID, err)
	}

	m.logger.Info("entered match", slog.String("match_id", string(matchID)))
	return nil
}

func (m *Manager) subscribeMatch(matchID model.MatchID, identity model.PlayerID) error {
	stateSub, err := m.transport.Subscribe(matchTopic(matchID, identity))
	if err != nil {
		return err
	}
	errorSub, err := m.transport.Subscribe(matchErrorTopic(matchID, identity))
	if err != nil {
		_ = stateSub.Unsubscribe()
		return err
	}

	m.mu.Lock()
	m.matchID = matchID
	m.matchSubs = []push.Subscription{stateSub, errorSub}
	m.mu.Unlock()

	go m.pumpSnapshots(matchID, stateSub)
	go m.pumpMatchErrors(matchID, errorSub)
	return nil
}

// LeaveMatch tears down the current match's subscriptions. The personal
// subscription and the connection itself stay up.
func (m *Manager) LeaveMatch() {
	if m.dropMatchSubs() {
		m.logger.Info("left match")
	}
}

// CurrentMatch returns the match whose subscriptions are active, if any
func (m *Manager) CurrentMatch() (model.MatchID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchID, m.matchID != ""
}

// Teardown drops every subscription and closes the transport. Only logout
// calls this.
func (m *Manager) Teardown() {
	m.mu.Lock()
	m.tearing = true
	personal := m.personal
	subs := m.matchSubs
	m.personal = nil
	m.matchSubs = nil
	m.matchID = ""
	m.state = StateDisconnected
	m.mu.Unlock()

	if personal != nil {
		_ = personal.Unsubscribe()
	}
	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
	_ = m.transport.Close()
	m.logger.Info("push channel torn down")
}

// PublishMove fires a shot at the given cell of the current match
func (m *Manager) PublishMove(matchID model.MatchID, target model.Coordinate) error {
	m.mu.Lock()
	state := m.state
	identity := m.identity
	m.mu.Unlock()

	if state != StateConnected {
		return model.ErrNotConnected
	}

	body, err := json.Marshal(map[string]model.Coordinate{"target": target})
	if err != nil {
		return err
	}

	headers := map[string]string{"playerId": string(identity)}
	return m.transport.Publish(moveDestination(matchID), headers, body)
}

// dropMatchSubs unsubscribes the active match topics, reporting whether
// any were active
func (m *Manager) dropMatchSubs() bool {
	m.mu.Lock()
	subs := m.matchSubs
	m.matchSubs = nil
	m.matchID = ""
	m.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
	return len(subs) > 0
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) pumpNotifications(sub push.Subscription) {
	for msg := range sub.C() {
		var n model.Notification
		if err := json.Unmarshal(msg.Body, &n); err != nil {
			m.logger.Warn("bad notification payload", slog.String("error", err.Error()))
			continue
		}
		if m.handlers.Notification != nil {
			m.handlers.Notification(n)
		}
	}
	m.handleDrop(sub)
}

func (m *Manager) pumpSnapshots(matchID model.MatchID, sub push.Subscription) {
	for msg := range sub.C() {
		var snap model.MatchSnapshot
		if err := json.Unmarshal(msg.Body, &snap); err != nil {
			m.logger.Warn("bad snapshot payload",
				slog.String("match_id", string(matchID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		if m.handlers.Snapshot != nil {
			m.handlers.Snapshot(matchID, &snap)
		}
	}
	m.handleDrop(sub)
}

func (m *Manager) pumpMatchErrors(matchID model.MatchID, sub push.Subscription) {
	for msg := range sub.C() {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			continue
		}
		if m.handlers.MatchError != nil {
			m.handlers.MatchError(matchID, payload.Message)
		}
	}
	m.handleDrop(sub)
}

// handleDrop runs when any subscription's pump exits. A pump that exits
// because the manager unsubscribed it finds itself unregistered and
// returns. Otherwise the subscription died under the manager (connection
// drop, or a broker error ending a single subscription), so the manager
// goes back to DISCONNECTED and retries the whole connect-and-subscribe
// cycle, re-entering the match it was in. When several pumps die at once,
// only the first one through runs the recovery.
func (m *Manager) handleDrop(sub push.Subscription) {
	m.mu.Lock()
	if m.tearing || m.state != StateConnected || !m.holds(sub) {
		m.mu.Unlock()
		return
	}
	identity := m.identity
	matchID := m.matchID
	m.personal = nil
	m.matchSubs = nil
	m.matchID = ""
	m.state = StateDisconnected
	m.mu.Unlock()

	m.logger.Warn("push subscription dropped, reconnecting",
		slog.String("topic", sub.Topic()),
		slog.String("match_id", string(matchID)),
	)
	_ = m.transport.Close()

	ctx := context.Background()
	if err := m.EnsureConnected(ctx, identity); err != nil {
		m.logger.Error("reconnect failed", slog.String("error", err.Error()))
		return
	}
	if matchID != "" {
		if err := m.EnterMatch(ctx, matchID); err != nil {
			m.logger.Error("resubscribe failed",
				slog.String("match_id", string(matchID)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// holds reports whether the subscription is still registered. Callers hold
// the mutex.
func (m *Manager) holds(sub push.Subscription) bool {
	if m.personal == sub {
		return true
	}
	for _, s := range m.matchSubs {
		if s == sub {
			return true
		}
	}
	return false
}

func personalTopic(identity model.PlayerID) string {
	return fmt.Sprintf("/topic/user/%s/notifications", identity)
}

func matchTopic(matchID model.MatchID, identity model.PlayerID) string {
	return fmt.Sprintf("/topic/game/%s/%s", matchID, identity)
}

func matchErrorTopic(matchID model.MatchID, identity model.PlayerID) string {
	return fmt.Sprintf("/topic/game/%s/%s/error", matchID, identity)
}

func moveDestination(matchID model.MatchID) string {
	return fmt.Sprintf("/app/game/%s/move", matchID)
}
