// Package engine wires the client's components into one process-scoped
// object with init and teardown bound to login and logout. Nothing here is
// ambient: every component receives its dependencies explicitly.
package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/frankint/battleship-cli/internal/api"
	"github.com/frankint/battleship-cli/internal/channel"
	"github.com/frankint/battleship-cli/internal/game"
	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/push"
	"github.com/frankint/battleship-cli/internal/session"
	"github.com/frankint/battleship-cli/internal/social"
)

// UIEvents are the signals the engine surfaces to whatever presentation
// layer drives it. All are optional; all errors surfaced here are
// transient notifications, never blocking.
type UIEvents struct {
	MatchEnded       func(won bool)
	OpponentShipSunk func()
	SnapshotApplied  func(*model.MatchSnapshot)
	MatchError       func(message string)
	Challenge        func(social.Challenge)
	Declined         func(message string, returnedToLobby bool)
	SessionExpired   func()
}

// Config holds configuration for the engine
type Config struct {
	// ServerURL is the REST base URL, e.g. http://localhost:8080
	ServerURL string
	// WebSocketURL is the push endpoint, e.g. ws://localhost:8080/ws
	WebSocketURL string
	// CredentialsPath overrides the durable credential file location
	CredentialsPath string
	// Logger is the application logger; a no-op logger is used if nil
	Logger *slog.Logger
	// Transport overrides the push transport; tests inject a fake here
	Transport push.Transport
	// Events receives UI signals
	Events UIEvents
}

// Engine owns the client's state for one process: session, REST client,
// push channel, match view and placement interaction
type Engine struct {
	logger *slog.Logger
	events UIEvents

	API       *api.Client
	Sessions  *session.Store
	Channels  *channel.Manager
	View      *game.ViewModel
	Placement *game.PlacementController
	Router    *social.Router
}

// New creates a fully wired engine. No network traffic happens until a
// session is established.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	e := &Engine{
		logger: logger,
		events: cfg.Events,
	}

	e.API = api.NewClient(cfg.ServerURL, logger.With(slog.String("component", "api")))

	credPath := cfg.CredentialsPath
	if credPath == "" {
		credPath = session.DefaultCredentialsPath()
	}
	e.Sessions = session.New(
		e.API,
		e.API,
		session.NewFileStore(credPath),
		session.NewMemoryStore(),
		logger.With(slog.String("component", "session")),
	)

	// An unauthenticated response from any request, whichever component
	// issued it, resets the session. Login probes with a candidate
	// credential are exempt: there is no session to reset yet.
	e.API.OnAuthFailure(func() {
		if e.Sessions.Current() == nil {
			return
		}
		e.Sessions.Logout()
		if e.events.SessionExpired != nil {
			e.events.SessionExpired()
		}
	})

	// Identity is bound after login; the view model starts unowned
	e.View = game.NewViewModel("", game.Events{
		MatchEnded:       e.events.MatchEnded,
		OpponentShipSunk: e.events.OpponentShipSunk,
		SnapshotApplied:  e.events.SnapshotApplied,
	}, logger.With(slog.String("component", "view")))

	e.Placement = game.NewPlacementController(e.View, e.API,
		logger.With(slog.String("component", "placement")))

	e.Router = social.NewRouter(social.Hooks{
		Challenge: e.events.Challenge,
		Declined:  e.onDeclined,
		WaitingIn: e.waitingIn,
	}, logger.With(slog.String("component", "social")))

	transport := cfg.Transport
	if transport == nil {
		transport = push.NewStompTransport(cfg.WebSocketURL,
			logger.With(slog.String("component", "push")))
	}
	e.Channels = channel.NewManager(transport, channel.Handlers{
		Snapshot:     func(id model.MatchID, snap *model.MatchSnapshot) { e.View.Apply(id, snap) },
		MatchError:   e.onMatchError,
		Notification: e.Router.Dispatch,
	}, logger.With(slog.String("component", "channel")))

	// Logout tears the whole channel down and drops all match state
	e.Sessions.OnLogout(func() {
		e.Channels.Teardown()
		e.View.Leave()
		e.Placement.Reset()
	})

	return e
}

// Login authenticates with a username/password pair and connects the push
// channel
func (e *Engine) Login(ctx context.Context, username, password string) (*session.Session, error) {
	sess, err := e.Sessions.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return sess, e.bind(ctx, sess)
}

// LoginGuest authenticates with a server-issued guest account
func (e *Engine) LoginGuest(ctx context.Context) (*session.Session, error) {
	sess, err := e.Sessions.LoginGuest(ctx)
	if err != nil {
		return nil, err
	}
	return sess, e.bind(ctx, sess)
}

// Restore revalidates a persisted credential from an earlier run
func (e *Engine) Restore(ctx context.Context) (*session.Session, error) {
	sess, err := e.Sessions.Restore(ctx)
	if err != nil {
		return nil, err
	}
	return sess, e.bind(ctx, sess)
}

// bind attaches an authenticated session to the live components
func (e *Engine) bind(ctx context.Context, sess *session.Session) error {
	e.View.SetIdentity(sess.Identity)
	if err := e.Channels.EnsureConnected(ctx, sess.Identity); err != nil {
		// REST still works without the push channel; surface but carry on
		e.logger.Warn("push channel unavailable", slog.String("error", err.Error()))
	}
	return nil
}

// Logout destroys the session; registered hooks tear down the channel
func (e *Engine) Logout() {
	e.Sessions.Logout()
}

// EnterMatch joins (or re-opens) a match: the view model is re-keyed, the
// match topics are subscribed, and the join response provides the first
// snapshot. Pushes that race the join are fine; each snapshot is total, so
// last-write-wins.
func (e *Engine) EnterMatch(ctx context.Context, matchID model.MatchID) (*model.MatchSnapshot, error) {
	e.View.Enter(matchID)
	e.Placement.Reset()

	if err := e.Channels.EnterMatch(ctx, matchID); err != nil {
		e.logger.Warn("match subscription unavailable",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}

	snap, err := e.API.JoinMatch(ctx, matchID)
	if err != nil {
		e.Channels.LeaveMatch()
		e.View.Leave()
		return nil, err
	}

	// Tagged apply: if the player has since entered a different match,
	// this response is stale and is discarded
	e.View.Apply(matchID, snap)
	return snap, nil
}

// CreateMatch creates a new match and enters it
func (e *Engine) CreateMatch(ctx context.Context) (*model.MatchSnapshot, error) {
	snap, err := e.API.CreateMatch(ctx)
	if err != nil {
		return nil, err
	}
	return e.EnterMatch(ctx, snap.MatchID)
}

// LeaveMatch returns to the lobby. Match subscriptions are dropped; the
// personal subscription and the connection stay up. In-flight REST calls
// for the abandoned match are not cancelled; their eventual responses are
// discarded by the view model's match tag.
func (e *Engine) LeaveMatch() {
	e.Channels.LeaveMatch()
	e.View.Leave()
	e.Placement.Reset()
}

// Fire shoots at a cell of the opponent's board in the current match
func (e *Engine) Fire(x, y int) error {
	matchID, ok := e.Channels.CurrentMatch()
	if !ok {
		return model.ErrNotInMatch
	}
	return e.Channels.PublishMove(matchID, model.Coordinate{X: x, Y: y})
}

// AcceptChallenge enters the challenge's match through the normal flow,
// resubscribing and waiting for the next snapshot rather than assuming
// one was already pushed
func (e *Engine) AcceptChallenge(ctx context.Context, ch social.Challenge) (*model.MatchSnapshot, error) {
	return e.EnterMatch(ctx, ch.MatchID)
}

// DeclineChallenge declines without any local state change
func (e *Engine) DeclineChallenge(ctx context.Context, ch social.Challenge) error {
	return e.API.DeclineInvite(ctx, ch.MatchID, ch.Sender)
}

func (e *Engine) onMatchError(matchID model.MatchID, message string) {
	e.logger.Warn("match error",
		slog.String("match_id", string(matchID)),
		slog.String("message", message),
	)
	if e.events.MatchError != nil {
		e.events.MatchError(message)
	}
}

// onDeclined handles a declined-challenge notification; when the player is
// waiting inside the declined match they are forced back to the lobby
func (e *Engine) onDeclined(message string, forceLobby bool) {
	if forceLobby {
		e.LeaveMatch()
	}
	if e.events.Declined != nil {
		e.events.Declined(message, forceLobby)
	}
}

// waitingIn reports the match the player is waiting in for an opponent
func (e *Engine) waitingIn() (model.MatchID, bool) {
	snap := e.View.Snapshot()
	if snap == nil || snap.Phase != model.PhaseWaitingForOpponent {
		return "", false
	}
	return snap.MatchID, true
}
