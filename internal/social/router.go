// Package social routes personal-channel events: challenges from other
// players and declines of the player's own challenges.
package social

import (
	"log/slog"

	"github.com/frankint/battleship-cli/internal/model"
)

// Challenge is an incoming game invitation awaiting an accept/decline
// decision
type Challenge struct {
	MatchID model.MatchID
	Sender  string
	Message string
}

// Hooks are the actions the router can take. They operate on the current
// lobby/match flow and are independent of whichever match the player is
// viewing.
type Hooks struct {
	// Challenge surfaces an accept/decline decision to the player
	Challenge func(Challenge)

	// Declined surfaces the decline message. forceLobby is true when the
	// player is waiting inside the declined match and must be returned to
	// the lobby.
	Declined func(message string, forceLobby bool)

	// WaitingIn reports the match the player is currently waiting in for
	// an opponent, if any. Used to decide whether a decline forces a
	// lobby return.
	WaitingIn func() (model.MatchID, bool)
}

// Router dispatches personal-channel notifications. Notification events
// may interleave arbitrarily with match-state events on other topics, so
// the router never assumes a challenge acceptance happens before the
// match's first state push: accepting always goes through the normal
// enter-match flow, which resubscribes and waits for the next snapshot.
type Router struct {
	hooks  Hooks
	logger *slog.Logger
}

// NewRouter creates a notification router
func NewRouter(hooks Hooks, logger *slog.Logger) *Router {
	return &Router{hooks: hooks, logger: logger}
}

// Dispatch routes one notification. Unknown kinds are logged and dropped.
func (r *Router) Dispatch(n model.Notification) {
	switch n.Type {
	case model.NotificationChallenge:
		r.logger.Info("challenge received",
			slog.String("match_id", string(n.MatchID)),
			slog.String("sender", n.Sender),
		)
		if r.hooks.Challenge != nil {
			r.hooks.Challenge(Challenge{
				MatchID: n.MatchID,
				Sender:  n.Sender,
				Message: n.Message,
			})
		}

	case model.NotificationDeclined:
		r.logger.Info("challenge declined", slog.String("by", n.Sender))
		forceLobby := false
		if r.hooks.WaitingIn != nil {
			// A decline deletes the challenge's match server-side. The
			// payload does not always name the match, so a player waiting
			// for an opponent is kicked back unless the named match is a
			// different one.
			if current, ok := r.hooks.WaitingIn(); ok {
				forceLobby = n.MatchID == "" || current == n.MatchID
			}
		}
		if r.hooks.Declined != nil {
			r.hooks.Declined(n.Message, forceLobby)
		}

	default:
		r.logger.Warn("unknown notification kind", slog.String("type", n.Type))
	}
}
